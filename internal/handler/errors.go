// Package handler exposes the service over HTTP with echo.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/travelhub/internal/models"
	"github.com/dharmasatrya/travelhub/internal/providers"
)

const (
	errValidation      = "validation_error"
	errUpstream        = "upstream_error"
	errUpstreamTimeout = "upstream_timeout"
	errInternal        = "internal_error"
)

// ErrorHandler is installed as echo's HTTPErrorHandler. It turns the typed
// errors returned by handlers into the JSON error body. Upstream details are
// logged and never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", status).
			Msg("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}

func errorResponse(err error) (int, models.ErrorResponse) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, models.ErrorResponse{Error: errValidation, Details: verr.Fields}
	}

	var upErr *providers.UpstreamError
	if errors.As(err, &upErr) {
		if upErr.Class == providers.ErrorClassTimeout {
			return http.StatusGatewayTimeout, models.ErrorResponse{Error: errUpstreamTimeout}
		}
		return http.StatusBadGateway, models.ErrorResponse{Error: errUpstream}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, models.ErrorResponse{Error: fmt.Sprint(httpErr.Message)}
	}

	return http.StatusInternalServerError, models.ErrorResponse{Error: errInternal}
}

// bindError reports a body or parameter that could not be decoded as a
// validation failure on field.
func bindError(field string, err error) error {
	msg := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg = fmt.Sprint(httpErr.Message)
	}
	return models.NewValidationError(field, msg)
}
