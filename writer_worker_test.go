package harness

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dice-group/sparql-transactional-test/script"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOperation(id int, expected string) script.Operation {
	return script.Operation{
		Id: id,
		Mutation: script.Mutation{
			Endpoint: script.SparqlUpdateEndpoint,
			Method:   script.MethodPost,
			Body:     "INSERT DATA { <urn:a> <urn:p> <urn:o> . }",
		},
		Verification: script.Verification{
			Queries: []script.QueryExpectation{
				{Query: "CONSTRUCT WHERE { ?s ?p ?o }", Expected: Canonicalize(expected)},
			},
		},
	}
}

func TestRunWriterSucceedsWhenStateMatches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/update", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<urn:a> <urn:p> <urn:o> .\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	eps := Endpoints{UpdateEndpoint: srv.URL + "/update", QueryEndpoint: srv.URL + "/query"}
	scr := script.OperationScript{Operations: []script.Operation{testOperation(0, "<urn:a> <urn:p> <urn:o> .\n")}}

	result := runWriter(context.Background(), NewClient(), eps, scr, IgnoreConnectionError, false, discardLogger())
	if result.Err != nil {
		t.Fatalf("expected success, got %v", result.Err)
	}
}

func TestRunWriterReportsInvalidState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/update", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<urn:a> <urn:p> <urn:different> .\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	eps := Endpoints{UpdateEndpoint: srv.URL + "/update", QueryEndpoint: srv.URL + "/query"}
	scr := script.OperationScript{Operations: []script.Operation{testOperation(0, "<urn:a> <urn:p> <urn:o> .\n")}}

	result := runWriter(context.Background(), NewClient(), eps, scr, IgnoreConnectionError, true, discardLogger())
	if result.Err == nil {
		t.Fatal("expected an invalid-state error")
	}
	if !errors.Is(result.Err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", result.Err)
	}
}

func TestRunWriterRetriesTransientUpdateFailure(t *testing.T) {
	var attempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/update", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			// simulate a connection drop: close without responding.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("expected a hijackable ResponseWriter")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatal(err)
			}
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<urn:a> <urn:p> <urn:o> .\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	eps := Endpoints{UpdateEndpoint: srv.URL + "/update", QueryEndpoint: srv.URL + "/query"}
	scr := script.OperationScript{Operations: []script.Operation{testOperation(0, "<urn:a> <urn:p> <urn:o> .\n")}}

	result := runWriter(context.Background(), NewClient(), eps, scr, IgnoreConnectionError, false, discardLogger())
	if result.Err != nil {
		t.Fatalf("expected the writer to recover from one transient failure, got %v", result.Err)
	}
	if attempts.Load() < 2 {
		t.Fatalf("expected at least 2 attempts, got %d", attempts.Load())
	}
}

func TestRunWriterReportConnectionErrorFailsImmediately(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/update", func(w http.ResponseWriter, r *http.Request) {
		hj, _ := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		conn.Close()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	eps := Endpoints{UpdateEndpoint: srv.URL + "/update", QueryEndpoint: srv.URL + "/query"}
	scr := script.OperationScript{Operations: []script.Operation{testOperation(0, "")}}

	result := runWriter(context.Background(), NewClient(), eps, scr, ReportConnectionError, false, discardLogger())
	if result.Err == nil {
		t.Fatal("expected ReportConnectionError to fail on the first transient error")
	}
	if !errors.Is(result.Err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", result.Err)
	}
}

func TestRunVerificationQueriesConcurrently(t *testing.T) {
	var inflight, maxInflight atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			m := maxInflight.Load()
			if n <= m || maxInflight.CompareAndSwap(m, n) {
				break
			}
		}
		io.WriteString(w, "<urn:a> <urn:p> <urn:o> .\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	op := script.Operation{
		Verification: script.Verification{Queries: []script.QueryExpectation{
			{Query: "q1", Expected: Canonicalize("<urn:a> <urn:p> <urn:o> .\n")},
			{Query: "q2", Expected: Canonicalize("<urn:a> <urn:p> <urn:o> .\n")},
		}},
	}
	_, err := runVerification(context.Background(), NewClient(), srv.URL+"/query", op, IgnoreConnectionError)
	if err != nil {
		t.Fatal(err)
	}
	if maxInflight.Load() < 2 {
		t.Fatalf("expected verification queries to run concurrently, max inflight was %d", maxInflight.Load())
	}
}
