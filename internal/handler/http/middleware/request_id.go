package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/contextutil"
	"github.com/go-chi/httplog/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates X-Request-ID, generating one when absent, into the
// request context, the response headers and the request log line.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.New().String()
		}

		ctx := contextutil.WithRequestID(r.Context(), rid)
		httplog.SetAttrs(ctx, slog.String("request_id", rid))

		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
