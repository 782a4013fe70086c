package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claim set issued and accepted by the server.
//
// It embeds [jwt.RegisteredClaims] for the standard claims (sub, exp, iat,
// iss) and adds the user profile fields that are copied into [User] after a
// successful verification.
type Claims struct {
	jwt.RegisteredClaims

	// Login mirrors [User.Login].
	Login string `json:"login,omitempty"`

	// Name mirrors [User.Name].
	Name string `json:"name,omitempty"`

	// Roles mirrors [User.Roles].
	Roles []string `json:"roles,omitempty"`
}

// User builds the [User] described by the claims.
func (c *Claims) User() *User {
	return &User{
		ID:    c.Subject,
		Login: c.Login,
		Name:  c.Name,
		Roles: append([]string(nil), c.Roles...),
	}
}

// Token wraps a signed JWT together with its parsed claims.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims holds the verified claim set.
	Claims *Claims `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
