package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/ratelimit"
)

// RequestID берет X-Request-ID клиента или выдает uuid
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RequestLogger - access log в zap. Ошибку отдаем в обработчик сразу, чтобы знать итоговый статус.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Int64("size", res.Size),
				zap.String("ip", c.RealIP()),
				zap.Duration("duration", time.Since(start)),
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				logger.Error("request completed", fields...)
			case res.Status >= http.StatusBadRequest:
				logger.Warn("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
			return nil
		}
	}
}

// RateLimit - окно в минуту на ip клиента, при превышении 429 и Retry-After в секундах
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if limiter.Allow(key) {
				return next(c)
			}

			retry := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
			if m != nil {
				m.RecordRateLimitHit("http")
			}
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests, please try again later"})
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler приводит все ошибки к {"error": "..."}; текст 5xx наружу не отдается
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "An unexpected error occurred. Please try again later."

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
				msg = m
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Error: msg})
	}
}
