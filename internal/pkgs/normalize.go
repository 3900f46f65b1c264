// Package pkgs canonicalizes raw package names captured from different
// package managers into a manager-agnostic identifier set, and holds the
// static cross-distro substitution table.
package pkgs

import (
	"sort"
	"strings"
)

// NormalizeName reduces a raw package token to a comparable form: first
// whitespace field, path and @-version suffixes stripped, lower-cased,
// with a trailing hyphen-delimited numeric version removed. Reverse-domain
// names (org.*) keep their dotted segments untouched.
func NormalizeName(name string) string {
	token := strings.TrimSpace(name)
	if token == "" {
		return ""
	}
	token = strings.Fields(token)[0]
	token = strings.SplitN(token, "/", 2)[0]
	token = strings.SplitN(token, "@", 2)[0]
	token = strings.TrimRight(token, ",")
	token = strings.ToLower(token)

	// Strip simple version suffixes common in rpm output (foo-1.2.3).
	if strings.Contains(token, "-") && !strings.HasPrefix(token, "org.") {
		parts := strings.Split(token, "-")
		last := parts[len(parts)-1]
		if len(parts) > 1 && isNumericVersion(last) {
			token = strings.Join(parts[:len(parts)-1], "-")
		}
	}
	return token
}

// isNumericVersion reports whether s is digits and dots only (non-empty).
func isNumericVersion(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch != '.' && (ch < '0' || ch > '9') {
			return false
		}
	}
	return strings.Trim(s, ".") != ""
}

// Normalizer canonicalizes package names through the alias table.
type Normalizer struct {
	aliasLookup map[string]string
}

// NewNormalizer builds a Normalizer from an alias map (canonical name →
// aliases). Alias keys are stored normalized so lookups are
// case-insensitive on the normalized form.
func NewNormalizer(aliases map[string][]string) *Normalizer {
	lookup := make(map[string]string)
	for canonical, names := range aliases {
		for _, alias := range names {
			if norm := NormalizeName(alias); norm != "" {
				lookup[norm] = canonical
			}
		}
	}
	return &Normalizer{aliasLookup: lookup}
}

// Canonicalize normalizes every name, maps it through the alias table,
// and returns the deduplicated sorted canonical set. Empty tokens are
// dropped silently.
func (n *Normalizer) Canonicalize(names []string) []string {
	set := make(map[string]bool)
	for _, name := range names {
		norm := NormalizeName(name)
		if norm == "" {
			continue
		}
		if canonical, ok := n.aliasLookup[norm]; ok {
			set[canonical] = true
		} else {
			set[norm] = true
		}
	}
	canonical := make([]string, 0, len(set))
	for name := range set {
		canonical = append(canonical, name)
	}
	sort.Strings(canonical)
	return canonical
}
