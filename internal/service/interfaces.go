//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

package service

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-web-server/internal/session"
	"github.com/MKhiriev/go-web-server/models"
)

// Authenticator resolves the user behind a request.
//
// A request without credentials is anonymous: Authenticate returns a nil user,
// an empty token and a nil error. An error means credentials were presented
// but could not be verified.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request, s *session.Session) (*models.User, string, error)
}

// TokenIssuer issues signed tokens for route modules that log users in.
type TokenIssuer interface {
	IssueToken(ctx context.Context, user models.User) (models.Token, error)
}

// AuthService verifies and issues tokens.
type AuthService interface {
	Authenticator
	TokenIssuer
}

// AppInfoService exposes build metadata to the built-in routes.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	BuildInfo() models.AppBuildInfo
}
