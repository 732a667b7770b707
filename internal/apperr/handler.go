package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

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

		var re *ReferenceError
		if errors.As(err, &re) {
			_ = c.JSON(http.StatusBadRequest, map[string]any{
				"error":      re.Message,
				"title":      "invalid reference",
				"invalidIds": re.InvalidIDs,
			})
			return
		}

		var nfe *NotFoundError
		if errors.As(err, &nfe) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nfe.Error(), "title": "not found"})
			return
		}

		var ce *ConflictError
		if errors.As(err, &ce) {
			_ = c.JSON(http.StatusConflict, map[string]string{"error": ce.Message, "title": "conflict"})
			return
		}

		var cse *ConsistencyError
		if errors.As(err, &cse) {
			slog.Error("Consistency failure, compensation executed", "error", cse)
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": cse.Message, "title": "consistency error"})
			return
		}

		var ue *UpstreamError
		if errors.As(err, &ue) {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": ue.Message, "kind": string(ue.Kind)})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
