package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// errorHandler renders every failure as {"message": ...}. APIErrors keep
// their status, unmatched routes become "Route not found" and anything else
// is logged and hidden behind a generic 500.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := http.StatusInternalServerError, common.InternalServerErrorMessage

	var apiErr *common.APIError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.Status, apiErr.Message
	case errors.As(err, &he):
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			status, msg = common.ErrRouteNotFound.Status, common.ErrRouteNotFound.Message
		case http.StatusInternalServerError:
			s.logger.Error(c.Request().Context(), "request failed", "error", err)
		default:
			status, msg = he.Code, http.StatusText(he.Code)
		}
	default:
		s.logger.Error(c.Request().Context(), "request failed",
			"error", err,
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorBody{Message: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "error writing response", "error", err)
	}
}
