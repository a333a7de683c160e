package util

import (
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	return emailRegex.MatchString(s)
}
