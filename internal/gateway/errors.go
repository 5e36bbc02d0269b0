package gateway

import "fmt"

// ConfigurationError means the gateway credential is missing or unusable.
// It is raised before any network call is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gateway configuration error: %s", e.Reason)
}

// UnavailableError means the provider could not be reached or answered with
// an unexpected status. StatusCode and Body are zero/empty when the failure
// happened at the transport layer.
//
// Indeterminate is true when a create-payin request failed after it may have
// reached the provider: the payin may or may not exist upstream. Callers must
// reconcile such attempts against the provider instead of retrying blindly.
type UnavailableError struct {
	Op            string
	StatusCode    int
	Body          string
	Indeterminate bool
	Err           error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		if e.Indeterminate {
			return fmt.Sprintf("gateway %s failed in flight (outcome unknown): %v", e.Op, e.Err)
		}
		return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s returned unexpected status %d", e.Op, e.StatusCode)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError means the provider answered with a structured error payload.
// Detail carries the provider's own error body verbatim so operators can see
// what was rejected and why.
type RejectedError struct {
	Op         string
	StatusCode int
	Detail     map[string]interface{}
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gateway %s rejected with status %d: %v", e.Op, e.StatusCode, e.Detail)
}
