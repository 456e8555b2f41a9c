// Package auth gates sensitive ledger operations on credential checks.
// Failure is a boolean outcome the caller must branch on, never an error.
package auth

import "crypto/subtle"

// Authenticator verifies account credentials and the process-wide admin
// secret. The admin secret is injected at construction, not compiled in.
type Authenticator struct {
	adminSecret string
}

// New creates an Authenticator with the given admin secret.
func New(adminSecret string) *Authenticator {
	return &Authenticator{adminSecret: adminSecret}
}

// Verify reports whether supplied matches expected exactly. The comparison
// is constant-time.
func (a *Authenticator) Verify(expected, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// VerifyAdmin reports whether supplied matches the admin secret.
func (a *Authenticator) VerifyAdmin(supplied string) bool {
	return a.Verify(a.adminSecret, supplied)
}
