package service

import "strings"

// NormalizeEmail lowercases and trims an address so that registration,
// login and refresh-token resolution all agree on the same lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
