package model

import "time"

// Session is a server-side login session. IsAdmin is scoped to the
// session: it is set by the admin promotion step and dies with the session.
type Session struct {
	Token     string
	UserID    string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at t.
func (s *Session) Expired(t time.Time) bool {
	return t.After(s.ExpiresAt)
}
