package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/templui/campus-collector/internal/ctxkeys"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing a sane incoming one,
// and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), id)))
	})
}
