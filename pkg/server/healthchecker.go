package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a plain function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// AlwaysHealthy serves components with no backing service to check.
var AlwaysHealthy HealthChecker = HealthCheckerFunc(func(context.Context) bool { return true })
