package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// ConnAcquirer checks a database connection out for one request.
type ConnAcquirer interface {
	Acquire(ctx context.Context) (context.Context, func(), error)
}

// DBConn binds one pooled database connection to each request and releases
// it when the handler returns, including on panic.
func DBConn(logger *slog.Logger, db ConnAcquirer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, release, err := db.Acquire(r.Context())
			if err != nil {
				logger.Error("failed to acquire database connection",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			defer release()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
