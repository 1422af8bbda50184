package hrpauth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailPattern accepts local@domain.tld: at least one non-whitespace,
// non-@ character before the @, one label after it, and a dot-separated
// suffix. Matches the backend's own client-side contract.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNicknameLen = 3
	minPasswordLen = 6
)

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validNickname(nickname string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(nickname)) >= minNicknameLen
}
