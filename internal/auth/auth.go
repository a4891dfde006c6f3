// Package auth supplies the identity of the person practicing. A Provider
// either yields a stable user id or reports that nobody is signed in.
package auth

// Provider yields the current user id, or ok=false when unauthenticated.
type Provider interface {
	CurrentUser() (id string, ok bool)
}

// Static is a Provider with a fixed user id. The zero value is
// unauthenticated.
type Static struct {
	UserID string
}

func (s Static) CurrentUser() (string, bool) {
	return s.UserID, s.UserID != ""
}

// Anonymous is the unauthenticated Provider.
var Anonymous Provider = Static{}
