package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField is the form field HTML forms use to request PUT,
// PATCH or DELETE.
const MethodOverrideField = "_method"

// MethodOverride rewrites POST requests carrying a _method field of PUT,
// PATCH or DELETE so the router dispatches them to the matching route.
// It must run before routing.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.PostFormValue(MethodOverrideField)); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// MaxBody caps request bodies at n bytes.
func MaxBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
