package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dice-group/sparql-transactional-test/canon"
)

// ErrEmptyScript is returned by Load when a writer's directory contains
// no op_<i>.json files at all. A writer must have at least one
// operation to replay.
var ErrEmptyScript = errors.New("empty operation script")

type fileExpectation struct {
	Query    string `json:"query"`
	Expected string `json:"expected"`
}

type fileOperation struct {
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	QueryParams map[string]string `json:"query_params"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	Validate    json.RawMessage   `json:"validate"`
}

// Load reads one writer's operation script from dir. Files are named
// op_<i>.json with contiguous non-negative i starting at 0; loading
// stops at the first missing index. An empty directory (no op_0.json)
// is a construction error, per spec.md §6.
func Load(dir string) (OperationScript, error) {
	var ops []Operation
	for i := 0; ; i++ {
		path := filepath.Join(dir, fmt.Sprintf("op_%d.json", i))
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return OperationScript{}, fmt.Errorf("reading %s: %w", path, err)
		}
		op, err := decodeOperation(i, data)
		if err != nil {
			return OperationScript{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return OperationScript{}, ErrEmptyScript
	}
	return OperationScript{Operations: ops}, nil
}

func decodeOperation(id int, data []byte) (Operation, error) {
	var fo fileOperation
	if err := json.Unmarshal(data, &fo); err != nil {
		return Operation{}, err
	}
	endpoint, err := endpointFromString(fo.Endpoint)
	if err != nil {
		return Operation{}, err
	}
	queries, err := decodeValidate(fo.Validate)
	if err != nil {
		return Operation{}, err
	}
	return Operation{
		Id: id,
		Mutation: Mutation{
			Endpoint:    endpoint,
			Method:      Method(fo.Method),
			QueryParams: fo.QueryParams,
			Headers:     fo.Headers,
			Body:        fo.Body,
		},
		Verification: Verification{Queries: queries},
	}, nil
}

// decodeValidate accepts either a single {"query","expected"} object
// (the common, single-graph case) or an array of them (the
// default+named-graph case), keeping the on-disk format close to
// spec.md §6 while satisfying §3's "list of pairs" uniformity.
func decodeValidate(raw json.RawMessage) ([]QueryExpectation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var single fileExpectation
	if err := json.Unmarshal(raw, &single); err == nil && single.Query != "" {
		return []QueryExpectation{toQueryExpectation(single)}, nil
	}
	var many []fileExpectation
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("invalid validate block: %w", err)
	}
	ret := make([]QueryExpectation, len(many))
	for i, fe := range many {
		ret[i] = toQueryExpectation(fe)
	}
	return ret, nil
}

func toQueryExpectation(fe fileExpectation) QueryExpectation {
	return QueryExpectation{
		Query:    fe.Query,
		Expected: canon.Canonicalize(fe.Expected),
	}
}
