package harness

import "github.com/dice-group/sparql-transactional-test/canon"

// CanonicalState and Canonicalize are re-exported from package canon so
// callers building a Config or inspecting a terminal error do not need
// a second import for a single-type dependency.
type CanonicalState = canon.CanonicalState

var Canonicalize = canon.Canonicalize
