package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/rag-insight/internal/catalog"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

type EvaluationService interface {
	Detailed(ctx context.Context, retriever string) (*domain.DetailedResult, error)
	Overview(ctx context.Context) (*domain.MetricsOverview, error)
}

type EvaluationRouter struct {
	e        *echo.Echo
	service  EvaluationService
	manifest catalog.Manifest
}

func NewEvaluationRouter(e *echo.Echo, service EvaluationService, manifest catalog.Manifest) *EvaluationRouter {
	return &EvaluationRouter{
		e:        e,
		service:  service,
		manifest: manifest,
	}
}

func (r *EvaluationRouter) Bind() {
	g := r.e.Group("/api/evaluation")
	g.GET("/metrics", r.metricsHandler)
	g.GET("/detailed/:retriever", r.detailedHandler)
}

// metricsHandler godoc
// @Summary Per-retriever metric overview
// @Description Mean RAGAS scores per retriever, the run manifest and the best performer
// @Tags evaluation
// @Produce json
// @Success 200 {object} domain.MetricsOverview
// @Failure 404 {object} ErrorBody
// @Failure 500 {object} ErrorBody
// @Failure 504 {object} ErrorBody
// @Router /api/evaluation/metrics [get]
func (r *EvaluationRouter) metricsHandler(c echo.Context) error {
	overview, err := r.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	if r.manifest != nil {
		overview.Manifest = r.manifest
	}
	return c.JSON(http.StatusOK, overview)
}

// detailedHandler godoc
// @Summary Detailed results for one retriever
// @Description Per-query records with decoded contexts, four metrics and an aggregate summary
// @Tags evaluation
// @Produce json
// @Param retriever path string true "Retriever id" Enums(naive, bm25, ensemble, cohere_rerank)
// @Success 200 {object} domain.DetailedResult
// @Failure 400 {object} ErrorBody
// @Failure 404 {object} ErrorBody
// @Failure 500 {object} ErrorBody
// @Failure 504 {object} ErrorBody
// @Router /api/evaluation/detailed/{retriever} [get]
func (r *EvaluationRouter) detailedHandler(c echo.Context) error {
	result, err := r.service.Detailed(c.Request().Context(), c.Param("retriever"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
