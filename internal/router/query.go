package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// ErrorBody is the shape written by the global error handler.
type ErrorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

type StatusBody struct {
	Status string `json:"status"`
}

type QueryService interface {
	SubmitQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
	Health(ctx context.Context) (bool, error)
}

type QueryRouter struct {
	e       *echo.Echo
	service QueryService
}

func NewQueryRouter(e *echo.Echo, service QueryService) *QueryRouter {
	return &QueryRouter{
		e:       e,
		service: service,
	}
}

func (r *QueryRouter) Bind() {
	g := r.e.Group("/api/query")
	g.POST("", r.queryHandler)
	g.GET("/health", r.healthHandler)
}

// queryHandler godoc
// @Summary Ask the RAG graph a question
// @Description Creates a thread unless thread_id is supplied and waits for the graph run
// @Tags query
// @Accept json
// @Produce json
// @Param request body domain.QueryRequest true "Question and optional retriever or thread"
// @Success 200 {object} domain.QueryResponse
// @Failure 400 {object} ErrorBody
// @Failure 502 {object} ErrorBody
// @Failure 504 {object} ErrorBody
// @Router /api/query [post]
func (r *QueryRouter) queryHandler(c echo.Context) error {
	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	resp, err := r.service.SubmitQuery(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// healthHandler godoc
// @Summary Graph backend health
// @Tags query
// @Produce json
// @Success 200 {object} StatusBody
// @Failure 503 {object} StatusBody
// @Router /api/query/health [get]
func (r *QueryRouter) healthHandler(c echo.Context) error {
	ok, err := r.service.Health(c.Request().Context())
	if err != nil {
		slog.Warn("Graph backend health check failed", "error", err)
	}
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, StatusBody{Status: "unhealthy"})
	}
	return c.JSON(http.StatusOK, StatusBody{Status: "healthy"})
}
