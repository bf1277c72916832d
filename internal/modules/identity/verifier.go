// README: Identity verification against order customer fields.
package identity

import (
	"strings"
	"unicode"

	"waypoint/internal/modules/orders"
)

// The upstream system issues no customer auth token, so ownership of an
// order is established by asking the caller to restate data already on it.
// Thresholds below are tuning constants carried over from the live system,
// not derived security parameters; tests pin them.
const (
	emailFuzzyThreshold    = 70
	nameFuzzyThreshold     = 60
	fullNameFuzzyThreshold = 50
	lastResortThreshold    = 70

	minPhoneDigits   = 4
	minEmailChars    = 3
	minNameChars     = 2
	minFullNameChars = 3
)

// Match checks a free-text identifier against an order's customer fields,
// cheapest and least ambiguous first, short-circuiting on the first hit.
// It returns the name of the matched field for audit purposes.
func Match(o orders.Order, identifier string) (string, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", false
	}
	if matchPhone(o.Phone, identifier) {
		return "phone", true
	}
	if matchEmail(o.Email, identifier) {
		return "email", true
	}
	if matchName(o.FirstName, identifier, nameFuzzyThreshold, minNameChars) {
		return "first_name", true
	}
	if matchName(o.LastName, identifier, nameFuzzyThreshold, minNameChars) {
		return "last_name", true
	}
	if matchName(o.FullName(), identifier, fullNameFuzzyThreshold, minFullNameChars) {
		return "full_name", true
	}
	// Last pass: a looser standalone fuzzy try against each name part.
	if FuzzyMatch(identifier, o.FirstName, lastResortThreshold) {
		return "first_name_fuzzy", true
	}
	if FuzzyMatch(identifier, o.LastName, lastResortThreshold) {
		return "last_name_fuzzy", true
	}
	return "", false
}

// Verify reports whether the identifier proves ownership of the order.
// Pure and deterministic; case-insensitive throughout.
func Verify(o orders.Order, identifier string) bool {
	_, ok := Match(o, identifier)
	return ok
}

func matchPhone(phone, identifier string) bool {
	p := lastN(digits(phone), 10)
	id := digits(identifier)
	if len(id) < minPhoneDigits || p == "" {
		return false
	}
	id = lastN(id, 10)
	if p == id || strings.HasSuffix(p, id) || strings.HasSuffix(id, p) {
		return true
	}
	return len(p) >= 4 && len(id) >= 4 && lastN(p, 4) == lastN(id, 4)
}

func matchEmail(email, identifier string) bool {
	e := strings.ToLower(strings.TrimSpace(email))
	id := strings.ToLower(strings.TrimSpace(identifier))
	if e == "" || len(id) < minEmailChars {
		return false
	}
	if e == id {
		return true
	}
	local := e
	if at := strings.Index(e, "@"); at >= 0 {
		local = e[:at]
	}
	if local == id || strings.Contains(local, id) || strings.Contains(id, local) {
		return true
	}
	return FuzzyMatch(id, local, emailFuzzyThreshold)
}

func matchName(name, identifier string, threshold, minChars int) bool {
	n := normalizeName(name)
	id := normalizeName(identifier)
	if n == "" || len(id) < minChars {
		return false
	}
	if n == id || strings.Contains(n, id) || strings.Contains(id, n) {
		return true
	}
	return FuzzyMatch(id, n, threshold)
}

// normalizeName lowercases, drops everything but letters and spaces, and
// collapses runs of whitespace.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
