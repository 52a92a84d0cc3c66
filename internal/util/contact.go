package util

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
)

// NormalizePhone reduces a listing phone number to E.164 (+<digits>).
// Spaces, dashes, dots and parentheses are accepted as separators.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("phone is required")
	}

	var digits []rune
	for i, r := range s {
		switch {
		case r == '+' && i == 0:
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case r == ' ', r == '-', r == '(', r == ')', r == '.':
		default:
			return "", fmt.Errorf("phone contains invalid characters")
		}
	}
	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("phone must be in E.164 format")
	}
	return "+" + string(digits), nil
}

// NormalizeWebsite accepts absolute http(s) URLs; a bare host gets https://.
func NormalizeWebsite(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("website is required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("website must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("website must use http or https")
	}
	return u.String(), nil
}

// NormalizeEmail returns the bare lowercase address.
func NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid email")
	}
	return strings.ToLower(addr.Address), nil
}
