package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-web-server/internal/mount"
)

// Metrics exposes the request metrics of the server in the prometheus text
// format.
func Metrics(r chi.Router, deps mount.Deps) error {
	if deps.Metrics == nil {
		return ErrNoMetrics
	}
	r.Method("GET", "/", deps.Metrics.Handler())
	return nil
}
