package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/mount"
)

type buildResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// Version answers GET / with the plain build version and GET /build with
// the full build metadata.
func Version(r chi.Router, deps mount.Deps) error {
	if deps.AppInfo == nil {
		return ErrNoAppInfo
	}
	info := deps.AppInfo

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		serverVersion := info.GetAppVersion(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(serverVersion))
	})

	r.Get("/build", func(w http.ResponseWriter, r *http.Request) {
		build := info.BuildInfo()
		resp := buildResponse{
			Version: build.BuildVersion(),
			Date:    build.BuildDate(),
			Commit:  build.BuildCommit(),
		}
		if _, err := myHTTP.WriteJSON(w, resp, http.StatusOK); err != nil {
			logger.FromRequest(r).Err(err).Msg("error writing build response")
		}
	})

	return nil
}
