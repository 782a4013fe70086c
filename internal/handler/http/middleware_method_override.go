package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	methodOverrideHeader = "X-HTTP-Method-Override"
	methodOverrideField  = "_method"
)

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// withMethodOverride lets POST requests from clients limited to GET and POST
// reach PUT, PATCH and DELETE routes. The target method is taken from the
// X-HTTP-Method-Override header, or from the "_method" form field parsed by
// the body stage.
func withMethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		method := r.Header.Get(methodOverrideHeader)
		if method == "" {
			if state := stateOf(r); state.Form != nil {
				method = state.Form.Get(methodOverrideField)
			}
		}
		method = strings.ToUpper(strings.TrimSpace(method))

		if overridableMethods[method] {
			r = r.WithContext(r.Context())
			r.Method = method
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				rctx.RouteMethod = method
			}
		}

		next.ServeHTTP(w, r)
	})
}
