// Package canon implements the N-Triples response canonicalization
// used to compare observed store state against recorded expectations:
// line-trim, lexicographic sort, single trailing newline per line.
package canon

import (
	"sort"
	"strings"
)

// CanonicalState is the comparison form of an N-Triples response: every
// line trimmed, the lines sorted lexicographically, each terminated by
// exactly one newline. Two responses describe the same state iff their
// canonical forms are byte-equal.
type CanonicalState string

// Canonicalize normalizes a raw N-Triples response body into its
// CanonicalState. Canonicalize is idempotent and invariant under any
// permutation of the input's lines.
func Canonicalize(body string) CanonicalState {
	raw := strings.Split(body, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return CanonicalState(b.String())
}

// Equal reports whether two canonical states describe the same store
// state. It is a byte-equality check; Canonicalize is what does the
// normalization work.
func (s CanonicalState) Equal(other CanonicalState) bool {
	return s == other
}

func (s CanonicalState) String() string {
	return string(s)
}
