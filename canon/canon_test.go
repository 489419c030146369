package canon_test

import (
	"testing"

	"github.com/dice-group/sparql-transactional-test/canon"
)

func TestCanonicalizeSortsAndTrims(t *testing.T) {
	a := canon.Canonicalize("<urn:b> <urn:p> <urn:o> .\n  <urn:a> <urn:p> <urn:o> . \n")
	b := canon.Canonicalize("<urn:a> <urn:p> <urn:o> .\n<urn:b> <urn:p> <urn:o> .\n")
	if !a.Equal(b) {
		t.Fatalf("expected permutation-invariant equality, got %q vs %q", a, b)
	}
}

func TestCanonicalizeDropsBlankLines(t *testing.T) {
	got := canon.Canonicalize("<urn:a> <urn:p> <urn:o> .\n\n\n")
	want := canon.Canonicalize("<urn:a> <urn:p> <urn:o> .")
	if !got.Equal(want) {
		t.Fatalf("blank lines should be dropped: got %q want %q", got, want)
	}
}

func TestCanonicalizeEmptyBody(t *testing.T) {
	if got := canon.Canonicalize(""); got != "" {
		t.Fatalf("expected empty CanonicalState, got %q", got)
	}
	if got := canon.Canonicalize("   \n  \n"); got != "" {
		t.Fatalf("whitespace-only body should canonicalize to empty, got %q", got)
	}
}

func TestCanonicalizeNotEqualOnDifferentTriples(t *testing.T) {
	a := canon.Canonicalize("<urn:a> <urn:p> <urn:o> .")
	b := canon.Canonicalize("<urn:a> <urn:p> <urn:different> .")
	if a.Equal(b) {
		t.Fatal("expected different triples to compare unequal")
	}
}
