package middleware

import (
	"net/http"

	"github.com/templui/campus-collector/internal/ctxkeys"
	"github.com/templui/campus-collector/internal/i18n"
)

// WithLanguage stores the request's working language in the context.
// An explicit ?lang= wins over Accept-Language; handlers may narrow it further
// from a language field in the request body.
func WithLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		ctx := ctxkeys.WithLanguage(r.Context(), lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
