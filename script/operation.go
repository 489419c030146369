package script

import "github.com/dice-group/sparql-transactional-test/canon"

// QueryExpectation pairs one CONSTRUCT verification query with the
// canonical state a writer expects to observe after running it.
// Operations scoped to a single graph carry one QueryExpectation;
// operations that also touch a named graph carry two, kept as a list
// so the state machine stays uniform (spec.md §3).
type QueryExpectation struct {
	Query    string
	Expected canon.CanonicalState
}

// Verification is the set of queries a writer must run, and match,
// after issuing an Operation's Mutation.
type Verification struct {
	Queries []QueryExpectation
}

// Operation is one scripted unit replayed by a writer: a mutation to
// issue, and the verification that must hold once it has taken effect.
// Id is the operation's own identifier as given in its source file; it
// is not necessarily its position in the script (though in practice
// both come from the same contiguous op_<i>.json numbering).
type Operation struct {
	Id           int
	Mutation     Mutation
	Verification Verification
}

// OperationScript is the ordered, non-empty sequence of Operations one
// writer replays. It is immutable for the writer's lifetime; writers
// process it strictly in order and never skip or reorder entries.
type OperationScript struct {
	Operations []Operation
}

// Len reports the number of operations in the script.
func (s OperationScript) Len() int {
	return len(s.Operations)
}
