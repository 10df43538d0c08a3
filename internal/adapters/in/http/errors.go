package http

import (
	"errors"
	"log/slog"
	"net/http"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const invalidCredentialsCode = "invalid_credentials"

// Error is the body of every failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse maps the error taxonomy to a status code. Unknown errors are
// internal and their text is not exposed.
func errorResponse(err error) (int, Error) {
	var (
		denied   *errs.AccessDeniedError
		conflict *errs.StateConflictError
		httpErr  *echo.HTTPError
	)

	switch {
	case errors.As(err, &denied):
		if denied.Code == invalidCredentialsCode {
			return http.StatusUnauthorized, Error{Code: denied.Code, Message: err.Error()}
		}
		return http.StatusForbidden, Error{Code: denied.Code, Message: err.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, Error{Code: conflict.Code, Message: err.Error()}
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, Error{Code: "concurrent_update", Message: "load was changed concurrently, retry"}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: "not_found", Message: err.Error()}
	case errors.Is(err, kernel.ErrReferenceIsMalformed):
		return http.StatusBadRequest, Error{Code: "invalid_reference", Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest, Error{Code: "missing_field", Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusBadRequest, Error{Code: "invalid_value", Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: "out_of_range", Message: err.Error()}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, Error{Code: codeForStatus(httpErr.Code), Message: msg}
	default:
		return http.StatusInternalServerError, Error{Code: "internal", Message: "internal server error"}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		if status >= http.StatusInternalServerError {
			return "internal"
		}
		return "error"
	}
}

// ErrorHandler replaces echo's default so that router and binding errors use
// the same body as the handlers.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "writing error response", "error", err)
		}
	}
}
