package inputval

import (
	"net/mail"
	"net/url"
	"strings"
)

var allowedGroupRoles = []string{"creator", "admin", "member"}

var allowedVisibilities = []string{"public", "private"}

// IsValidEmail reports whether s is a plain RFC 5322 address.
// Display-name forms ("Name <addr>") are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

// IsValidGroupRole reports whether s names a membership role,
// case-insensitively and ignoring surrounding whitespace.
func IsValidGroupRole(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range allowedGroupRoles {
		if s == r {
			return true
		}
	}
	return false
}

// AllowedGroupRolesList returns the valid roles in rank order.
func AllowedGroupRolesList() []string {
	out := make([]string, len(allowedGroupRoles))
	copy(out, allowedGroupRoles)
	return out
}

// IsValidVisibility reports whether s is a recognized group visibility.
func IsValidVisibility(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range allowedVisibilities {
		if s == v {
			return true
		}
	}
	return false
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex string.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
