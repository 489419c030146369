package query

import (
	"fmt"
	"math/rand/v2"
)

// Synthetic generates SELECT * ... LIMIT k queries with k
// uniform in [200, 500). It carries no state and has no stable query
// identity: every call returns hasIndex false, per spec.md §4.1.
type Synthetic struct{}

// NewSynthetic returns a ready-to-use synthetic Generator.
func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

func (s *Synthetic) Next() (int, bool, string) {
	limit := 200 + rand.IntN(300)
	return 0, false, fmt.Sprintf("SELECT * WHERE { ?s ?p ?o } LIMIT %d", limit)
}
