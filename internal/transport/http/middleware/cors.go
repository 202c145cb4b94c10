package middleware

import "net/http"

// AllowOrigin выставляет Access-Control-Allow-Origin на каждый ответ.
// Пустой origin означает "*".
func AllowOrigin(origin string) Middleware {
	if origin == "" {
		origin = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			next.ServeHTTP(w, r)
		})
	}
}
