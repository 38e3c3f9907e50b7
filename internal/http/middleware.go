package http

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-manager/internal/http/rate_limiter"
)

// AuthMiddleware requires a valid bearer token and stores the caller in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			handlers.WriteError(w, r, auth.ErrUnauthenticated)
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		principal, err := authService.Authenticate(r.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				logger.WithField("request_id", middleware.GetReqID(r.Context())).WithError(err).Debug("rejected token")
			}
			handlers.WriteError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// RateLimitMiddleware throttles requests per client IP.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.Allow(ip) {
			logger.WithFields(logrus.Fields{"remote_ip": ip, "path": r.URL.Path}).Warn("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			handlers.WriteError(w, r, handlers.ErrTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs every completed request with its status and latency.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		entry := logger.WithFields(logrus.Fields{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote_ip":   r.RemoteAddr,
			"status_code": ww.Status(),
			"bytes":       ww.BytesWritten(),
			"latency_ms":  time.Since(start).Milliseconds(),
		})
		switch status := ww.Status(); {
		case status >= 500:
			entry.Error("request completed with server error")
		case status >= 400:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
	})
}
