package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/rag-insight/internal/catalog"
)

type DatasetsResponse struct {
	Datasets []catalog.Dataset `json:"datasets"`
}

type DatasetsRouter struct {
	e       *echo.Echo
	catalog *catalog.Catalog
}

func NewDatasetsRouter(e *echo.Echo, c *catalog.Catalog) *DatasetsRouter {
	return &DatasetsRouter{
		e:       e,
		catalog: c,
	}
}

func (r *DatasetsRouter) Bind() {
	g := r.e.Group("/api/datasets")
	g.GET("/info", r.infoHandler)
	g.GET("/manifest", r.manifestHandler)
}

// infoHandler godoc
// @Summary Dataset catalog
// @Tags datasets
// @Produce json
// @Success 200 {object} DatasetsResponse
// @Router /api/datasets/info [get]
func (r *DatasetsRouter) infoHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, DatasetsResponse{Datasets: r.catalog.Datasets})
}

// manifestHandler godoc
// @Summary Data provenance manifest
// @Tags datasets
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/datasets/manifest [get]
func (r *DatasetsRouter) manifestHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.catalog.Provenance)
}
