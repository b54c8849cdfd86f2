package i18n

import "net/http"

// Middleware picks the response language from the lang query parameter, then
// the Accept-Language header, then fallback.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := make([]string, 0, 3)
			if q := r.URL.Query().Get("lang"); q != "" {
				prefs = append(prefs, q)
			}
			if h := r.Header.Get("Accept-Language"); h != "" {
				prefs = append(prefs, h)
			}
			prefs = append(prefs, fallback)

			ctx := WithLanguage(r.Context(), prefs...)
			w.Header().Set("Content-Language", Lang(ctx).String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
