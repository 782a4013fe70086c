package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/mount"
	"github.com/MKhiriev/go-web-server/internal/request"
	"github.com/MKhiriev/go-web-server/models"
)

type whoAmIResponse struct {
	Host          string       `json:"host"`
	Origin        string       `json:"origin,omitempty"`
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
	Session       string       `json:"session,omitempty"`
}

// WhoAmI echoes the request context of the caller.
func WhoAmI(r chi.Router, deps mount.Deps) error {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		rc, _ := request.FromContext(r.Context())

		resp := whoAmIResponse{
			Host:          rc.Host,
			Origin:        rc.Origin,
			Authenticated: rc.Authenticated(),
			User:          rc.User,
		}
		if rc.Session != nil && !rc.Session.IsNew() {
			resp.Session = rc.Session.ID()
		}

		if _, err := myHTTP.WriteJSON(w, resp, http.StatusOK); err != nil {
			logger.FromRequest(r).Err(err).Msg("error writing whoami response")
		}
	})
	return nil
}
