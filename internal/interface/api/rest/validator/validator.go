package validator

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"file-storage-api/internal/interface/api/rest/dto/auth"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt safe
	minFullNameLen = 2
	maxFullNameLen = 150
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,150}$`)
)

// ParseID accepts positive decimal ids only.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseOptionalID treats an empty string as "not given".
func ParseOptionalID(s string) (*int64, bool) {
	if s == "" {
		return nil, true
	}
	id, ok := ParseID(s)
	if !ok {
		return nil, false
	}
	return &id, true
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	// Normalize
	username := strings.TrimSpace(r.Username)
	fullName := strings.TrimSpace(r.FullName)
	email := strings.TrimSpace(r.Email)

	// username (required + charset + length)
	if username == "" {
		errs["username"] = "username is required"
	} else if !usernameRe.MatchString(username) {
		errs["username"] = "3-150 characters: letters, digits, '_'"
	}

	// full_name (required + length)
	if fullName == "" {
		errs["full_name"] = "full_name is required"
	} else if l := utf8.RuneCountInString(fullName); l < minFullNameLen || l > maxFullNameLen {
		errs["full_name"] = "full_name length must be 2-150 characters"
	}

	// email (required + format)
	if email == "" {
		errs["email"] = "email is required"
	} else if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		errs["email"] = "invalid email format"
	}

	if msg := checkPassword(r.Password); msg != "" {
		errs["password"] = msg
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "username is required"
	}
	// password is not trimmed
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkPassword(password string) string {
	if strings.TrimSpace(password) == "" {
		return "password is required"
	}
	if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		return "password length must be 6-72 characters"
	}
	if len(password) > maxPasswordLen {
		return "password must not exceed 72 bytes"
	}
	return ""
}
