// Package naming implements the single normalization rule used for brand
// and icon identifiers across the whole pipeline. Local names, remote
// component names and registry keys all go through Normalize, so the two
// sides of a sync diff are always comparable.
package naming

import "strings"

// Normalize converts an arbitrary display name into a canonical identifier:
// lowercase, every run of non-alphanumeric characters collapsed to a single
// hyphen, no leading or trailing hyphen. Normalize is idempotent.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAll normalizes every name in the slice, preserving order.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}

// IsNormalized reports whether name is already in canonical form.
func IsNormalized(name string) bool {
	return name != "" && Normalize(name) == name
}

// Key derives the canonical token registry key for a brand/icon pair.
// Both parts are normalized before joining.
func Key(brand, name string) string {
	return Normalize(brand) + "-" + Normalize(name)
}
