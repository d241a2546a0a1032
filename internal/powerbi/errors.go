package powerbi

import "fmt"

// AuthError means the client-credentials token exchange failed for one
// tenant. It aborts that tenant only; sibling tenants keep extracting.
type AuthError struct {
	TenantID string
	Status   int
	Body     string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("token error for tenant %s: %d - %s", e.TenantID, e.Status, e.Body)
	}
	return fmt.Sprintf("token error for tenant %s: %v", e.TenantID, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx, non-429 response from the activity API.
// It fails the day being fetched, nothing more.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Body)
}

// RateLimitError means the upstream kept answering 429 past the retry
// budget. Normally rate limiting is retried and never surfaces.
type RateLimitError struct {
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited after %d retries", e.Attempts)
}
