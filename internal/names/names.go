// Package names normalizes person display names entered by users.
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the NFC form of name with surrounding whitespace removed
// and inner whitespace runs collapsed to a single space.
func Normalize(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// NormalizeMap normalizes every value of a label to name map. Labels are
// kept as given; names that normalize to "" stay in the map as "".
func NormalizeMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for label, name := range m {
		out[label] = Normalize(name)
	}
	return out
}
