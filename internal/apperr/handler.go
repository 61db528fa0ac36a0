package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// UpstreamError is implemented by errors raised while talking to an
// external backend that answered badly or not at all.
type UpstreamError interface {
	error
	Upstream() string
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var nf *NotFoundError
		if errors.As(err, &nf) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nf.Error(), "title": "not found"})
			return
		}

		var te *TimeoutError
		if errors.As(err, &te) {
			slog.Error("Upstream timeout", "op", te.Op, "timeout", te.Timeout, "uri", c.Request().RequestURI)
			_ = c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "upstream request timed out"})
			return
		}

		var ue UpstreamError
		if errors.As(err, &ue) {
			slog.Error("Upstream failure", "upstream", ue.Upstream(), "error", err)
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("%s request failed", ue.Upstream())})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		var re *RemoteFetchError
		var pe *ParseError
		switch {
		case errors.As(err, &re):
			slog.Error("Remote fetch failed", "status", re.StatusCode, "body", re.Body, "error", err)
		case errors.As(err, &pe):
			slog.Error("Malformed source data", "file", pe.File, "rows", len(pe.Rows), "error", err)
		default:
			slog.Error("Unhandled error", "error", err)
		}
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
