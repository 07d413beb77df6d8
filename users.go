package ledger

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// User is an account as listed by the remote store to administrators.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Registration is a request to open an account.
type Registration struct {
	Name     string
	Email    string
	Password string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// passwordSymbols are the non alphanumeric characters allowed in a password.
const passwordSymbols = "@$!%*?&."

// Validate checks the registration and returns a copy with the name and email
// trimmed. The password must have at least 8 characters among letters, digits
// and passwordSymbols, with at least one lower case letter, one upper case
// letter, one digit and one symbol.
func (r Registration) Validate() (Registration, error) {
	var fields []string
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		fields = append(fields, "name")
	}
	r.Email = strings.TrimSpace(r.Email)
	if !emailPattern.MatchString(r.Email) {
		fields = append(fields, "email")
	}
	if !strongPassword(r.Password) {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return r, &ValidationError{Op: "register", Fields: fields}
	}
	return r, nil
}

func strongPassword(p string) bool {
	var lower, upper, digit, symbol bool
	for _, c := range p {
		switch {
		case c > unicode.MaxASCII:
			return false
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSymbols, c):
			symbol = true
		default:
			return false
		}
	}
	return len(p) >= 8 && lower && upper && digit && symbol
}

// MarshalJSON writes the registration the way the remote store expects it.
func (r Registration) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", r.Name)
	w.Append("email", r.Email)
	w.Append("password", r.Password)
	return w.MarshalJSON()
}

var _ json.Marshaler = Registration{}
