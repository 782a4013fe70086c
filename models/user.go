package models

// User is the authenticated principal attached to a request.
//
// It is produced by the authentication stage of the pipeline and copied into
// the request context snapshot, so handlers may read it freely without
// affecting other requests.
type User struct {
	// ID is the stable identifier of the user, taken from the token "sub" claim.
	ID string `json:"id"`

	// Login is the unique user login identifier, if the token carries one.
	Login string `json:"login,omitempty"`

	// Name is the display name of the user.
	Name string `json:"name,omitempty"`

	// Roles lists the roles granted to the user by the token issuer.
	Roles []string `json:"roles,omitempty"`
}

// Clone returns a deep copy of u. A nil receiver yields nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	if u.Roles != nil {
		clone.Roles = append([]string(nil), u.Roles...)
	}

	return &clone
}
