package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/session"
	"github.com/MKhiriev/go-web-server/models"
)

const (
	// SessionTokenKey is the session value consulted when the request has no
	// Authorization header.
	SessionTokenKey = "token"

	defaultTokenDuration = time.Hour
)

// authService verifies HS256 JWT tokens taken from the Authorization header
// or from the session, and issues new ones.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT. When set,
	// tokens with another issuer are rejected.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the auth section of the
// configuration. The returned service is safe for concurrent use.
func NewAuthService(cfg config.Auth, log *logger.Logger) AuthService {
	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = defaultTokenDuration
	}
	if log == nil {
		log = logger.Nop()
	}

	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        log,
	}
}

// NewAuthServiceFromProvider reads the auth:* keys of p.
func NewAuthServiceFromProvider(p config.Provider, log *logger.Logger) AuthService {
	return NewAuthService(config.Auth{
		TokenSignKey:  config.GetString(p, "auth:token_sign_key", ""),
		TokenIssuer:   config.GetString(p, "auth:token_issuer", ""),
		TokenDuration: config.GetDuration(p, "auth:token_duration", defaultTokenDuration),
	}, log)
}

// Authenticate implements [Authenticator].
func (a *authService) Authenticate(ctx context.Context, r *http.Request, s *session.Session) (*models.User, string, error) {
	raw, err := tokenFromRequest(r, s)
	if err != nil {
		return nil, "", err
	}
	if raw == "" {
		return nil, "", nil
	}

	token, err := a.parseToken(raw)
	if err != nil {
		return nil, "", err
	}

	return token.Claims.User(), raw, nil
}

// IssueToken implements [TokenIssuer]. The user ID becomes the subject.
func (a *authService) IssueToken(ctx context.Context, user models.User) (models.Token, error) {
	log := logger.FromContext(ctx)

	if user.ID == "" {
		return models.Token{}, ErrInvalidDataProvided
	}
	if a.tokenSignKey == "" {
		return models.Token{}, ErrTokenSigningDisabled
	}

	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.tokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Login: user.Login,
		Name:  user.Name,
		Roles: user.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.tokenSignKey))
	if err != nil {
		log.Err(err).Str("func", "*authService.IssueToken").Msg("error signing token")
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, Claims: claims, SignedString: signed}, nil
}

func (a *authService) parseToken(raw string) (models.Token, error) {
	if a.tokenSignKey == "" {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenSigningDisabled)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.tokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(a.tokenIssuer))
	}

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(a.tokenSignKey), nil
	}, opts...)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return models.Token{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return models.Token{Token: token, Claims: claims, SignedString: raw}, nil
}

// tokenFromRequest returns the bearer token of the Authorization header, or
// the token stored in the session.
func tokenFromRequest(r *http.Request, s *session.Session) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return parseBearerToken(header)
	}
	if s != nil {
		return s.GetString(SessionTokenKey), nil
	}
	return "", nil
}

func parseBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, errors.New("invalid authorization header"))
	}
	return strings.TrimSpace(token), nil
}
