package script_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/dice-group/sparql-transactional-test/script"
)

func writeOp(t *testing.T, dir string, index int, body string) {
	t.Helper()
	path := filepath.Join(dir, "op_"+strconv.Itoa(index)+".json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadContiguousOperations(t *testing.T) {
	dir := t.TempDir()
	writeOp(t, dir, 0, `{
		"endpoint": "UPDATE",
		"method": "POST",
		"body": "INSERT DATA { <urn:a> <urn:p> <urn:o> . }",
		"validate": {"query": "CONSTRUCT WHERE { ?s ?p ?o }", "expected": "<urn:a> <urn:p> <urn:o> .\n"}
	}`)
	writeOp(t, dir, 1, `{
		"endpoint": "GSP",
		"method": "PUT",
		"query_params": {"graph": "urn:g"},
		"body": "<urn:a> <urn:p> <urn:o2> .",
		"validate": [
			{"query": "CONSTRUCT WHERE { ?s ?p ?o }", "expected": "<urn:a> <urn:p> <urn:o> .\n"},
			{"query": "CONSTRUCT WHERE { GRAPH <urn:g> { ?s ?p ?o } }", "expected": "<urn:a> <urn:p> <urn:o2> .\n"}
		]
	}`)

	got, err := script.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 operations, got %d", got.Len())
	}
	if len(got.Operations[0].Verification.Queries) != 1 {
		t.Fatalf("op 0: expected 1 validation query, got %d", len(got.Operations[0].Verification.Queries))
	}
	if len(got.Operations[1].Verification.Queries) != 2 {
		t.Fatalf("op 1: expected 2 validation queries, got %d", len(got.Operations[1].Verification.Queries))
	}
	if got.Operations[1].Mutation.QueryParams["graph"] != "urn:g" {
		t.Fatalf("expected graph query param to survive loading")
	}
}

func TestLoadStopsAtFirstGap(t *testing.T) {
	dir := t.TempDir()
	writeOp(t, dir, 0, `{"endpoint":"UPDATE","method":"POST","body":"INSERT DATA {}","validate":{"query":"q","expected":""}}`)
	// op_1.json intentionally missing
	writeOp(t, dir, 2, `{"endpoint":"UPDATE","method":"POST","body":"INSERT DATA {}","validate":{"query":"q","expected":""}}`)

	got, err := script.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected loading to stop at the gap, got %d operations", got.Len())
	}
}

func TestLoadEmptyDirectoryIsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := script.Load(dir); err != script.ErrEmptyScript {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
}
