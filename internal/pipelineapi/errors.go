package pipelineapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// StatusNone marks a RemoteError that never received an HTTP response.
const StatusNone = 0

// RemoteError is the only failure kind the client returns. Status is the HTTP
// status code, or StatusNone for transport failures.
type RemoteError struct {
	Status int
	Detail string

	cause error
}

func (e *RemoteError) Error() string {
	if e.Status == StatusNone {
		return fmt.Sprintf("pipeline api unreachable: %s", e.Detail)
	}
	return fmt.Sprintf("pipeline api status %d: %s", e.Status, e.Detail)
}

// Unwrap exposes the transport error, if any.
func (e *RemoteError) Unwrap() error {
	return e.cause
}

// NotFound reports whether the server answered 404.
func (e *RemoteError) NotFound() bool {
	return e.Status == 404
}

// Detail returns the user-facing message for err: the server's detail for a
// RemoteError, the plain error text otherwise.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Detail
	}
	return err.Error()
}

func transportError(err error) *RemoteError {
	return &RemoteError{Status: StatusNone, Detail: err.Error(), cause: err}
}

// statusError builds a RemoteError from a non-2xx response body. FastAPI
// returns {"detail": "..."} for handled errors and {"detail": [...]} for
// validation failures; only the string form is shown verbatim.
func statusError(status int, fallback string, body []byte) *RemoteError {
	detail := fallback
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
			detail = text
		}
	}
	return &RemoteError{Status: status, Detail: detail}
}
