// Package session resolves the current user's identity and role and owns the
// bearer credential lifecycle. A Session is created at sign-in and torn down
// at sign-out or when the gateway reports the credential expired; engines
// receive it explicitly instead of reading ambient globals.
package session

import (
	"strconv"
	"sync"
	"time"

	"campushub/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the current viewer's credential and identity.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// New returns an anonymous session. Start promotes it to an authenticated one.
func New() *Session {
	return &Session{}
}

// Start installs a bearer token and the signed-in user. The user's role is
// normalized once here and is immutable for the session's lifetime.
func (s *Session) Start(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Role = models.NormalizeRole(string(user.Role))
	s.token = token
	s.user = &user
}

// StartFromToken installs a bearer token and derives the user from its
// claims without contacting the gateway. The signature is not verified here;
// the server rejects forged tokens on first use.
func (s *Session) StartFromToken(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.NewUnauthorizedError("Malformed session token")
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return models.NewSessionExpiredError()
	}

	user := models.User{}
	if sub, err := claims.GetSubject(); err == nil {
		if id, perr := strconv.ParseUint(sub, 10, 32); perr == nil {
			user.ID = uint(id)
		}
	}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	role, _ := claims["role"].(string)
	user.Role = models.NormalizeRole(role)

	s.Start(token, user)
	return nil
}

// End tears the session down. Subsequent capability checks report an
// anonymous viewer.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Authenticated reports whether a signed-in user is attached.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the signed-in user, or false for anonymous viewers.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Token returns the current bearer credential, empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CanModerate reports whether the current user may approve or reject posts.
// It is computed fresh from the session on every call, never cached past a
// role-affecting change.
func (s *Session) CanModerate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role.CanModerate()
}
