package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NonceAction names the action the widget nonces are bound to.
const NonceAction = "doc_query"

// NonceService issues and verifies short, windowed HMAC nonces for the public
// widget endpoints. A nonce is the truncated HMAC of (window tick | action);
// verification accepts the current and the previous tick, so a nonce stays
// valid for between one and two half-lifetimes.
type NonceService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewNonceService creates a nonce service. Lifetime defaults to 24h.
func NewNonceService(secret string, lifetime time.Duration) *NonceService {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &NonceService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Issue creates a nonce for the given action
func (s *NonceService) Issue(action string) string {
	return s.hash(s.tick(), action)
}

// Verify reports whether nonce is valid for action in the current or the
// previous window.
func (s *NonceService) Verify(nonce, action string) bool {
	if nonce == "" {
		return false
	}
	tick := s.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(nonce), []byte(s.hash(t, action))) {
			return true
		}
	}
	return false
}

func (s *NonceService) tick() int64 {
	half := s.lifetime / 2
	return s.now().UnixNano() / int64(half)
}

func (s *NonceService) hash(tick int64, action string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%s", tick, action)
	return hex.EncodeToString(mac.Sum(nil))[:10]
}
