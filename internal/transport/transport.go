// Package transport issues JSON requests against the ppcpilot REST API.
package transport

import "context"

// Client is the HTTP surface the services depend on. Outgoing field
// naming is snake_case and empty optional fields are omitted; both are
// enforced by the callers' struct tags, not by the transport.
type Client interface {
	// GetJSON issues a GET and decodes the response body into out.
	// A nil out discards the body.
	GetJSON(ctx context.Context, path string, out interface{}) error

	// PostJSON issues a POST with a JSON body and decodes the
	// response into out. A nil out discards the body.
	PostJSON(ctx context.Context, path string, payload, out interface{}) error

	// SetToken sets the bearer token applied to every request.
	// An empty token clears the Authorization header.
	SetToken(token string)

	// Token returns the current bearer token.
	Token() string
}
