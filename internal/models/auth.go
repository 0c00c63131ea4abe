package models

// TokenPair is the bearer token pair returned by the auth endpoints.
// Both values are opaque strings; Refresh may be empty on a refresh
// response when the server reuses the previous refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
