package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ledger"
	"github.com/etnz/ledger/session"
)

// Login exchanges an email and password for a session credential.
//
// The token is read from the login response, then the display name is read
// from the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (session.Credential, error) {
	jobj, err := c.signIn(ctx, []string{"auth", "login"}, email, password)
	if err != nil {
		return session.Credential{}, fmt.Errorf("login failed: %w", err)
	}
	token, err := stringAt(jobj, "$.token")
	if err != nil {
		return session.Credential{}, fmt.Errorf("login failed: %w", err)
	}

	cred := session.Credential{Token: token}
	name, err := c.Profile(ctx, cred)
	if err != nil {
		return session.Credential{}, fmt.Errorf("login failed: %w", err)
	}
	cred.Username = name
	return cred, nil
}

// AdminLogin exchanges an administrator email and password for a session
// credential. The admin login response carries the display name.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (session.Credential, error) {
	jobj, err := c.signIn(ctx, []string{"admin", "login"}, email, password)
	if err != nil {
		return session.Credential{}, fmt.Errorf("admin login failed: %w", err)
	}
	token, err := stringAt(jobj, "$.token")
	if err != nil {
		return session.Credential{}, fmt.Errorf("admin login failed: %w", err)
	}
	name, err := stringAt(jobj, "$.username")
	if err != nil {
		return session.Credential{}, fmt.Errorf("admin login failed: %w", err)
	}
	return session.Credential{Token: token, Username: name}, nil
}

func (c *Client) signIn(ctx context.Context, path []string, email, password string) (any, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	var jobj any
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

// Register opens an account. The registration is validated first, an invalid
// one returns a *ledger.ValidationError without any call. An email already
// known to the service gives an error wrapping ledger.ErrConflict.
func (c *Client) Register(ctx context.Context, r ledger.Registration) error {
	r, err := r.Validate()
	if err != nil {
		return err
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: []string{"auth", "register"}, body: r}, nil); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Profile returns the display name of the credential owner.
func (c *Client) Profile(ctx context.Context, cred session.Credential) (string, error) {
	var jobj any
	if err := c.do(ctx, request{method: http.MethodGet, path: []string{"user"}, cred: &cred}, &jobj); err != nil {
		return "", err
	}
	return stringAt(jobj, "$.username")
}

// stringAt returns the string found at path in jobj.
func stringAt(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("error parsing %q: not a string %v", path, jval)
	}
	return s, nil
}
