package controller

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/watchparty/server/pkg/ctxlogger"
)

func (c *controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the token travels as a query param; keep it out of the logs
		url := *r.URL
		if query := url.Query(); query.Has("token") {
			query.Set("token", "redacted")
			url.RawQuery = query.Encode()
		}

		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", url.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}
