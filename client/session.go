// Package client is the Go API client for the Bitewise backend, used by
// the CLI and kept in lockstep with the HTTP contract. Session handling
// mirrors what the web and mobile frontends do: hold a bearer token,
// drop it the moment the server says it is no longer valid.
package client

import "sync"

// Session holds the authenticated user's token and email. Safe for
// concurrent use; a UI can read the token while a refresh writes it.
type Session struct {
	mu    sync.RWMutex
	token string
	email string
}

// LogIn stores the token and email, replacing any previous session.
func (s *Session) LogIn(token, email string) {
	s.mu.Lock()
	s.token = token
	s.email = email
	s.mu.Unlock()
}

// LogOut clears the session. Safe to call when already logged out.
func (s *Session) LogOut() {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.mu.Unlock()
}

// Token returns the held token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the logged-in user's email, empty when logged out.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// LoggedIn reports whether a token is held. It says nothing about
// whether the server still accepts it.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
