package models

import "time"

// Credential is the bearer token of an authenticated session.
type Credential struct {
	Token     string    `json:"token"`
	LoggedIn  bool      `json:"logged_in"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the credential carries an expiry that has passed.
// A zero ExpiresAt never expires.
func (c *Credential) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// TTL returns the remaining lifetime, or fallback when the credential has no expiry.
func (c *Credential) TTL(now time.Time, fallback time.Duration) time.Duration {
	if c == nil || c.ExpiresAt.IsZero() {
		return fallback
	}
	return c.ExpiresAt.Sub(now)
}
