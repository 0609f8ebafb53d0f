package turn14

import (
	"fmt"
	"net/http"
)

// AuthError means the distributor rejected the merchant's credentials.
// Fatal to a whole reconciliation run.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("turn14 auth failed: %s", e.Message)
}

// RateLimitError means the distributor throttled the request. Retryable at
// the infrastructure level; callers decide the policy.
type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("turn14 rate limited, retry after %s", e.RetryAfter)
	}
	return "turn14 rate limited"
}

// NotFoundError means the requested SKU or vehicle does not exist upstream.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("turn14: %s not found", e.Resource)
}

// TransientError covers timeouts, network failures and 5xx responses.
type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("turn14 transient failure: %v", e.Err)
	}
	return fmt.Sprintf("turn14 transient failure: status %d", e.Status)
}

func (e *TransientError) Unwrap() error { return e.Err }

// normalizeStatus maps a non-2xx response to the typed error taxonomy.
func normalizeStatus(resp *http.Response, resource string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: resource}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: resp.Header.Get("Retry-After")}
	case resp.StatusCode >= 500:
		return &TransientError{Status: resp.StatusCode}
	default:
		return &TransientError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}
