// Package signing authenticates one-click booking actions embedded in
// restaurant notification emails.  Each link carries the booking's
// cancel token plus an HMAC that binds the token to one specific
// action, so a confirm signature can never be replayed as a refusal.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Actions a restaurant may take on a booking from an email link.
const (
	ActionConfirm = "confirm"
	ActionRefuse  = "refuse"
	ActionWaiting = "waiting"
)

// ValidAction reports whether the given name is a known link action.
func ValidAction(action string) bool {
	return action == ActionConfirm || action == ActionRefuse || action == ActionWaiting
}

// Signer computes and verifies action signatures with a process-wide
// secret injected at construction.  There is no key rotation; the
// cancel token acts as the per-booking component of the message.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer using the given server-side secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex HMAC-SHA256 of "<cancelToken>:<action>".
func (s *Signer) Sign(cancelToken, action string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(cancelToken + ":" + action))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for the token/action pair and
// compares it in constant time against the supplied value.
func (s *Signer) Verify(cancelToken, action, sig string) bool {
	want := s.Sign(cancelToken, action)
	return hmac.Equal([]byte(want), []byte(sig))
}

// ActionURL builds the absolute signed link for a restaurant-facing
// booking action.
func (s *Signer) ActionURL(baseURL, cancelToken, action string) string {
	return baseURL + "/api/bookings/action/" + cancelToken + "/" + action +
		"?sig=" + s.Sign(cancelToken, action)
}

// CancelURL builds the client-facing self-service cancel link.  It is
// unsigned: unguessability of the token alone protects it.
func CancelURL(baseURL, cancelToken string) string {
	return baseURL + "/api/bookings/cancel/" + cancelToken
}
