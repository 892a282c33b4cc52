package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, services.ErrOrderNotDispatchable),
		errors.Is(err, driver.ErrDriverHasActiveOrders):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderIsTerminal),
		errors.Is(err, driver.ErrDriverInactive),
		errors.Is(err, driver.ErrDriverOffline),
		errors.Is(err, driver.ErrDriverAtCapacity):
		return http.StatusUnprocessableEntity
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusOf(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message = fmt.Sprint(httpErr.Message)
	}
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Unhandled error",
			slog.String("error", err.Error()),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method))
		message = http.StatusText(code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, Error{Code: code, Message: message})
	}
	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to write error response",
			slog.String("error", writeErr.Error()))
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		level := slog.LevelInfo
		if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		s.logger.LogAttrs(req.Context(), level, "request",
			slog.String("method", req.Method),
			slog.String("uri", req.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote_ip", c.RealIP()))
		return nil
	}
}
