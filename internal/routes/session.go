package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/mount"
	"github.com/MKhiriev/go-web-server/internal/request"
	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/internal/session"
)

type sessionResponse struct {
	ID     string         `json:"id"`
	Values session.Values `json:"values"`
}

var errBadPayload = &myHTTP.HTTPError{Status: http.StatusBadRequest, Message: ErrBadPayload.Error(), Err: ErrBadPayload}

// Session lets a client read and write its own session. GET / returns it,
// POST / merges a JSON object or form into it, DELETE / destroys it. The
// token key and the keys listed in the "protected" option cannot be written
// and are not returned.
func Session(r chi.Router, deps mount.Deps) error {
	protected := map[string]bool{service.SessionTokenKey: true}
	if list, ok := deps.Option("protected", nil).([]any); ok {
		for _, key := range list {
			protected[fmt.Sprint(key)] = true
		}
	}

	r.Get("/", myHTTP.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		s, err := sessionOf(r)
		if err != nil {
			return err
		}
		return writeSession(w, r, s, protected)
	}).ServeHTTP)

	r.Post("/", myHTTP.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		s, err := sessionOf(r)
		if err != nil {
			return err
		}

		values, err := payload(r)
		if err != nil {
			return err
		}
		for key := range values {
			if protected[key] {
				return myHTTP.NewHTTPError(http.StatusForbidden, fmt.Sprintf("session key %q is read-only", key))
			}
		}
		for key, value := range values {
			s.Set(key, value)
		}

		return writeSession(w, r, s, protected)
	}).ServeHTTP)

	r.Delete("/", myHTTP.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		s, err := sessionOf(r)
		if err != nil {
			return err
		}
		s.Destroy()
		w.WriteHeader(http.StatusNoContent)
		return nil
	}).ServeHTTP)

	return nil
}

func sessionOf(r *http.Request) (*session.Session, error) {
	if rc, ok := request.FromContext(r.Context()); ok && rc.Session != nil {
		return rc.Session, nil
	}
	if s := session.FromContext(r.Context()); s != nil {
		return s, nil
	}
	return nil, ErrNoSession
}

// payload returns the decoded JSON object or form of the request.
func payload(r *http.Request) (map[string]any, error) {
	state := request.StateFrom(r.Context())
	if state == nil {
		return nil, errBadPayload
	}

	if state.Body != nil {
		values, ok := state.Body.(map[string]any)
		if !ok {
			return nil, errBadPayload
		}
		return values, nil
	}

	values := make(map[string]any, len(state.Form))
	for key, v := range state.Form {
		if key == "_method" || len(v) == 0 {
			continue
		}
		if len(v) == 1 {
			values[key] = v[0]
		} else {
			values[key] = v
		}
	}
	return values, nil
}

func writeSession(w http.ResponseWriter, r *http.Request, s *session.Session, hidden map[string]bool) error {
	values := s.Values()
	for key := range hidden {
		delete(values, key)
	}
	if values == nil {
		values = session.Values{}
	}

	if _, err := myHTTP.WriteJSON(w, sessionResponse{ID: s.ID(), Values: values}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing session response")
	}
	return nil
}
