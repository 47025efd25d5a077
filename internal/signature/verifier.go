// Package signature verifies the time-bound HMAC proof that accompanies
// every comment write.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the accepted clock skew on either side of server time.
const DefaultWindow = 30 * time.Second

var (
	ErrMissingFields     = errors.New("missing signature fields")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrStaleTimestamp    = errors.New("timestamp outside allowed window")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Verifier checks signatures against a single shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret []byte
	window time.Duration
	now    func() time.Time
}

// Option customises a Verifier
type Option func(*Verifier)

// WithClock replaces the server clock, for tests
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a verifier for secret with the given skew window
func NewVerifier(secret string, window time.Duration, opts ...Option) *Verifier {
	if window <= 0 {
		window = DefaultWindow
	}
	v := &Verifier{
		secret: []byte(secret),
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates the (clientID, timestamp, signature) triple.
// timestamp is unix milliseconds in decimal. The parsed timestamp is
// returned on success.
//
// The window is checked before the MAC, so a stale request is reported as
// stale whether or not its signature is correct.
func (v *Verifier) Verify(clientID, timestamp, signature string) (int64, error) {
	if clientID == "" || timestamp == "" || signature == "" {
		return 0, ErrMissingFields
	}

	millis, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return 0, ErrInvalidTimestamp
	}

	nowMillis := v.now().UnixMilli()
	window := v.window.Milliseconds()
	if millis < nowMillis-window || millis > nowMillis+window {
		return 0, ErrStaleTimestamp
	}

	expected := Sign(v.secret, clientID, millis)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return 0, ErrSignatureMismatch
	}
	return millis, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of "{clientID}:{timestampMillis}"
func Sign(secret []byte, clientID string, timestampMillis int64) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(clientID + ":" + strconv.FormatInt(timestampMillis, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SecretsEqual compares two shared secrets in constant time.
// Empty secrets never match.
func SecretsEqual(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return hmac.Equal([]byte(got), []byte(want))
}
