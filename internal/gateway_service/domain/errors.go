package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload indicates an inbound webhook body that could not be
// parsed at all. It is logged and the request is still acknowledged with
// 200, matching the provider's webhook contract.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// ValidationError indicates missing or invalid caller input on a send
// request. No network call is attempted when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UpstreamError indicates a non-2xx response or transport failure from the
// WhatsApp Cloud API, carrying the provider's status and body for
// observability.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("whatsapp api error: status %d, body: %s", e.StatusCode, e.Body)
}
