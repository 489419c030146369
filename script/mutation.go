package script

import "fmt"

// Endpoint selects which of the store's two write surfaces a Mutation
// targets.
type Endpoint uint8

const (
	// Unknown is the zero value; never valid on a loaded Operation.
	Unknown Endpoint = iota
	// SparqlUpdateEndpoint posts a SPARQL UPDATE body.
	SparqlUpdateEndpoint
	// GSPEndpoint performs a Graph Store Protocol request (POST, PUT or
	// DELETE against a graph IRI).
	GSPEndpoint
)

func endpointToString(e Endpoint) string {
	switch e {
	case SparqlUpdateEndpoint:
		return "UPDATE"
	case GSPEndpoint:
		return "GSP"
	default:
		return "Unknown"
	}
}

func endpointFromString(s string) (Endpoint, error) {
	switch s {
	case "UPDATE":
		return SparqlUpdateEndpoint, nil
	case "GSP":
		return GSPEndpoint, nil
	default:
		return Unknown, fmt.Errorf("unknown endpoint: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(endpointToString(e)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Endpoint) UnmarshalText(text []byte) error {
	v, err := endpointFromString(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e Endpoint) String() string {
	return endpointToString(e)
}

// Method is the HTTP method a Mutation uses. SparqlUpdateEndpoint
// mutations are always MethodPost; GSPEndpoint mutations may be any of
// the three.
type Method string

const (
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Mutation is one scripted write against the store. QueryParams and
// Headers are applied verbatim by the HTTP client facade; for
// GSPEndpoint mutations, QueryParams is expected to carry "graph" (the
// graph IRI, without angle brackets). Body is empty for
// GSPEndpoint+MethodDelete.
type Mutation struct {
	Endpoint    Endpoint
	Method      Method
	QueryParams map[string]string
	Headers     map[string]string
	Body        string
}
