// Package auth derives the per-request authentication parameters OneSky expects.
package auth

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"
)

// Query parameter names carrying the credentials.
const (
	ParamAPIKey    = "api_key"
	ParamTimestamp = "timestamp"
	ParamDevHash   = "dev_hash"
)

// Signer produces fresh authentication parameters for every outgoing request.
// It holds only immutable credentials and is safe for concurrent use.
type Signer struct {
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewSigner creates a signer reading the wall clock.
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{apiKey: apiKey, apiSecret: apiSecret, now: time.Now}
}

// WithClock replaces the time source and returns the signer for chaining.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// APIKey returns the public key.
func (s *Signer) APIKey() string {
	return s.apiKey
}

// Params returns api_key, timestamp and dev_hash for the current second.
// It reads the clock on every call; the result must not be reused across requests.
func (s *Signer) Params() map[string]string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return map[string]string{
		ParamAPIKey:    s.apiKey,
		ParamTimestamp: ts,
		ParamDevHash:   DevHash(ts, s.apiSecret),
	}
}

// DevHash returns the lowercase hex MD5 digest of timestamp followed by secret.
func DevHash(timestamp, secret string) string {
	sum := md5.Sum([]byte(timestamp + secret))
	return hex.EncodeToString(sum[:])
}
