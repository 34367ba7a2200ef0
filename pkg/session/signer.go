// Package session signs console session identifiers for the browser cookie.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken is returned when the token lifetime has passed.
	ErrExpiredToken = errors.New("session token expired")
)

// Signer creates and validates signed session tokens of the form
// "<session id>.<expiry unix>.<hex hmac>".
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and token TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL reports the token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token for sessionID valid for the signer TTL.
func (s *Signer) Sign(sessionID string) (string, time.Time, error) {
	if sessionID == "" || strings.Contains(sessionID, ".") {
		return "", time.Time{}, fmt.Errorf("invalid session id %q", sessionID)
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{sessionID, ts, s.mac(sessionID, ts)}, ".")
	return token, expiresAt, nil
}

// Verify checks the signature and expiry and returns the session id.
func (s *Signer) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" {
		return "", ErrInvalidToken
	}
	sessionID, ts, signature := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(s.mac(sessionID, ts)), []byte(signature)) {
		return "", ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if s.now().After(time.Unix(expUnix, 0)) {
		return "", ErrExpiredToken
	}
	return sessionID, nil
}

func (s *Signer) mac(sessionID, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(sessionID + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
