package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/mount"
)

type healthResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// Health answers GET / with the application name.
func Health(r chi.Router, deps mount.Deps) error {
	body := healthResponse{Status: "ok", Name: deps.Name}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := myHTTP.WriteJSON(w, body, http.StatusOK); err != nil {
			logger.FromRequest(r).Err(err).Msg("error writing health response")
		}
	})
	return nil
}
