package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/mount"
	"github.com/MKhiriev/go-web-server/internal/request"
	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/models"
)

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token issues a signed token for the user described by the JSON body,
// stores it in the session and returns it. It trusts the caller and is
// meant for development setups and for route modules placed behind their
// own credential check.
func Token(r chi.Router, deps mount.Deps) error {
	if deps.Tokens == nil {
		return ErrNoTokens
	}

	r.Post("/", myHTTP.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		log := logger.FromRequest(r)

		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			return fmt.Errorf("%w: %w", myHTTP.ErrMalformedBody, err)
		}

		token, err := deps.Tokens.IssueToken(r.Context(), user)
		if err != nil {
			return err
		}

		if rc, ok := request.FromContext(r.Context()); ok && rc.Session != nil {
			rc.Session.Regenerate()
			rc.Session.Set(service.SessionTokenKey, token.SignedString)
		}

		resp := tokenResponse{Token: token.SignedString}
		if token.Claims != nil && token.Claims.ExpiresAt != nil {
			resp.ExpiresAt = token.Claims.ExpiresAt.Time
		}

		w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
		if _, err := myHTTP.WriteJSON(w, resp, http.StatusOK); err != nil {
			log.Err(err).Msg("error writing token response")
		}
		return nil
	}).ServeHTTP)

	return nil
}
