package controller

import (
	"net/http"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

func logRequest(log *logger.Logger, r *http.Request, payload any) {
	log.Info(r.Context(), "http request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(log *logger.Logger, r *http.Request, status int, payload any, start time.Time) {
	log.Info(r.Context(), "http response", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(log *logger.Logger, r *http.Request, err error, extra logger.Fields) {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	}
	for k, v := range extra {
		fields[k] = v
	}
	log.Error(r.Context(), "http handler error", err, fields)
}
