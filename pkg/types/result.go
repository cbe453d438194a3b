package types

import (
	"errors"
	"fmt"
)

// ResultKind tags the outcome of a single inference call.
type ResultKind string

const (
	// ResultOK carries the model's response text.
	ResultOK ResultKind = "ok"
	// ResultConnectionFailed means the endpoint was unreachable.
	ResultConnectionFailed ResultKind = "connection_failed"
	// ResultProtocolError means the endpoint answered with a non-2xx status.
	ResultProtocolError ResultKind = "protocol_error"
	// ResultInternalError covers any other failure (bad payload, decode error).
	ResultInternalError ResultKind = "internal_error"
)

// Result is the tagged outcome of one prompt/response round trip.
//
// Failures are never propagated as run-aborting errors. Callers count and
// report them through Kind, then render them as inline document text via
// Render — a transient model outage degrades one section of one document
// instead of destroying the rest of the run.
type Result struct {
	Kind       ResultKind
	Text       string // response text when Kind == ResultOK
	StatusCode int    // HTTP status for ResultProtocolError
	Detail     string // raw response body or error message for failures
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Kind == ResultOK
}

// Render returns the text to embed in the output document: the response
// itself on success, or a human-readable Markdown error marker describing
// the failure against the given endpoint and model.
func (r Result) Render(endpoint, model string) string {
	switch r.Kind {
	case ResultOK:
		return r.Text
	case ResultConnectionFailed:
		return fmt.Sprintf("**Error: could not connect to the inference endpoint.** "+
			"Please ensure it is running at %s and the model %q is available.", endpoint, model)
	case ResultProtocolError:
		return fmt.Sprintf("**Error from inference endpoint (HTTP %d):** %s. "+
			"Check the endpoint logs for details.", r.StatusCode, r.Detail)
	default:
		return fmt.Sprintf("**Error:** an unexpected error occurred while calling the inference endpoint: %s", r.Detail)
	}
}

// Validate checks internal consistency of the result.
func (r Result) Validate() error {
	switch r.Kind {
	case ResultOK:
		return nil
	case ResultConnectionFailed, ResultInternalError:
		if r.Detail == "" {
			return errors.New("failure result requires a detail message")
		}
		return nil
	case ResultProtocolError:
		if r.StatusCode < 100 {
			return errors.New("protocol error result requires an HTTP status")
		}
		return nil
	default:
		return fmt.Errorf("invalid result kind %q", string(r.Kind))
	}
}
