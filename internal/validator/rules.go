package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AccountIDRgx matches identities and ledger account ids.
var AccountIDRgx = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:@-]{0,127}$`)

// NotBlank reports whether value has any non-space content.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Distinct reports whether two labels differ once case and surrounding
// space are ignored.
func Distinct(a, b string) bool {
	return !strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsAccountID returns true if value can name a ledger account. Vault ids
// share the syntax but are never accepted from clients.
func IsAccountID(value string) bool {
	return AccountIDRgx.MatchString(value) && !strings.HasPrefix(value, "vault:")
}
