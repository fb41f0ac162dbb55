// Package session carries the signed-in user's identity as an explicit value
// object. Components that need it receive it as an argument; nothing in the
// engine reads ambient global state.
package session

import "github.com/google/uuid"

// Context identifies the viewer session and, when signed in, the user.
// The zero UserID means anonymous; anonymous sessions can browse and edit
// but not submit.
type Context struct {
	ID     uuid.UUID
	UserID int64
	Token  string
	Admin  bool
}

// New returns an anonymous session with a fresh id.
func New() Context {
	return Context{ID: uuid.New()}
}

// SignedIn reports whether the session carries user credentials.
func (c Context) SignedIn() bool {
	return c.UserID != 0 && c.Token != ""
}
