// Package session holds the bearer credential of the signed in user.
//
// The credential is written by a login flow and cleared at logout. Stores
// only ever read it, through a Provider handed to them at construction.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned when no credential is present.
var ErrUnauthenticated = errors.New("not signed in")

// Credential is an opaque bearer token and the display name of its owner.
type Credential struct {
	Token    string
	Username string
}

// Valid reports whether the credential carries a token.
func (c Credential) Valid() bool { return c.Token != "" }

// Expiry returns the "exp" claim of the token when the token is a JWT.
//
// The signature is not verified: only the remote service can tell whether
// the token is still accepted. This is informational only.
func (c Credential) Expiry() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Provider gives read access to the current credential.
type Provider interface {
	// Credential returns the current credential, ok is false when signed out.
	Credential() (cred Credential, ok bool)
}

// Memory is a process wide, in memory session storage. Its zero value is signed out.
type Memory struct {
	mu   sync.RWMutex
	cred Credential
}

// NewMemory returns a Memory session already holding cred.
func NewMemory(cred Credential) *Memory { return &Memory{cred: cred} }

func (m *Memory) Credential() (Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cred, m.cred.Valid()
}

// Set stores the credential (login).
func (m *Memory) Set(cred Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
}

// Clear forgets the credential (logout).
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = Credential{}
}

// Static is a Provider that always returns the same credential.
type Static Credential

func (s Static) Credential() (Credential, bool) { return Credential(s), Credential(s).Valid() }

// RequireAuthenticated returns ErrUnauthenticated if p holds no credential.
//
// It is a local check: a present but expired token passes, and is only
// rejected by the next gateway call.
func RequireAuthenticated(p Provider) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if _, ok := p.Credential(); !ok {
		return ErrUnauthenticated
	}
	return nil
}

// Current returns the credential of p, or ErrUnauthenticated.
func Current(p Provider) (Credential, error) {
	if p == nil {
		return Credential{}, ErrUnauthenticated
	}
	cred, ok := p.Credential()
	if !ok {
		return Credential{}, ErrUnauthenticated
	}
	return cred, nil
}
