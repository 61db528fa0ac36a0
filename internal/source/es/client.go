// Package es reads evaluation rows from an Elasticsearch index.
package es

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type ClientConfig struct {
	Addresses    []string      `envconfig:"ES_ADDRESSES" default:"http://localhost:9200"`
	IndexName    string        `envconfig:"ES_INDEX" default:"evaluation-records"`
	Username     string        `envconfig:"ES_USERNAME"`
	Password     string        `envconfig:"ES_PASSWORD"`
	MaxDocs      int           `envconfig:"ES_MAX_DOCS" default:"1000"`
	QueryTimeout time.Duration `envconfig:"ES_QUERY_TIMEOUT" default:"10s"`
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}

type HealthChecker struct {
	client *elasticsearch.TypedClient
}

func NewHealthChecker(config ClientConfig) (*HealthChecker, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return &HealthChecker{client: client}, nil
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	ok, err := hc.client.Ping().Do(ctx)
	return err == nil && ok
}
