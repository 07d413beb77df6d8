package session

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the name of the session file in the temp directory.
const DefaultFileName = "ledger-session"

// DefaultPath returns the default session file path.
func DefaultPath() string { return filepath.Join(os.TempDir(), DefaultFileName) }

// File is a session storage persisted as "key: value" lines, so that
// successive CLI invocations share the same sign in.
type File struct {
	Path string
}

// Credential reads the session file. A missing or unreadable file is a signed out session.
func (f File) Credential() (Credential, bool) {
	cred, err := f.Load()
	if err != nil {
		return Credential{}, false
	}
	return cred, cred.Valid()
}

// Load reads the credential stored in the file.
func (f File) Load() (Credential, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credential{}, ErrUnauthenticated
	}
	if err != nil {
		return Credential{}, fmt.Errorf("cannot read session %q: %w", f.Path, err)
	}

	var cred Credential
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ":", 2)
		if len(parts) != 2 {
			continue
		}
		value := strings.TrimSpace(parts[1])
		switch strings.ToLower(strings.TrimSpace(parts[0])) {
		case "token":
			cred.Token = value
		case "username":
			cred.Username = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Credential{}, fmt.Errorf("cannot parse session %q: %w", f.Path, err)
	}
	if !cred.Valid() {
		return Credential{}, ErrUnauthenticated
	}
	return cred, nil
}

// Save writes the credential, readable by the current user only.
func (f File) Save(cred Credential) error {
	if !cred.Valid() {
		return errors.New("cannot save a session without token")
	}
	content := fmt.Sprintf("token: %s\nusername: %s\n", cred.Token, cred.Username)
	if err := os.WriteFile(f.Path, []byte(content), 0600); err != nil {
		return fmt.Errorf("cannot save session %q: %w", f.Path, err)
	}
	return nil
}

// Clear removes the session file. Clearing a signed out session is not an error.
func (f File) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot clear session %q: %w", f.Path, err)
	}
	return nil
}
