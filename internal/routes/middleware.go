package routes

import (
	"github.com/go-chi/chi/v5/middleware"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
	"github.com/MKhiriev/go-web-server/internal/mount"
)

// Registered middleware names.
const (
	HeartbeatMiddleware = "heartbeat"
	NoCacheMiddleware   = "nocache"
	CleanPathMiddleware = "clean-path"
)

// HeartbeatPath is answered by the heartbeat middleware.
const HeartbeatPath = "/ping"

func init() {
	mount.RegisterMiddleware(HeartbeatMiddleware, func() myHTTP.Middleware {
		return middleware.Heartbeat(HeartbeatPath)
	})
	mount.RegisterMiddleware(NoCacheMiddleware, func() myHTTP.Middleware {
		return middleware.NoCache
	})
	mount.RegisterMiddleware(CleanPathMiddleware, func() myHTTP.Middleware {
		return middleware.CleanPath
	})
}
