// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Identity is a resolved, authenticated party. How the credential was
// issued (e.g. a one-time-passcode exchange) is outside this package;
// callers only consume the resolved identity.
type Identity struct {
	VoterID string
	IsAdmin bool
}

// MintToken creates a signed session token for an identity.
// The token is payload.signature, both URL-safe base64 without padding,
// where payload is "voterID|isAdmin|expiryUnix".
func MintToken(id Identity, secret string, ttl time.Duration) string {
	payload := fmt.Sprintf("%s|%t|%d", id.VoterID, id.IsAdmin, time.Now().Add(ttl).Unix())
	enc := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return enc + "." + sign(payload, secret)
}

// Authenticate verifies a session token and returns the identity it
// carries. Returns ErrInvalidToken for tampered or malformed tokens and
// ErrExpiredToken for expired ones.
func Authenticate(token, secret string) (Identity, error) {
	encPayload, sig, found := strings.Cut(token, ".")
	if !found {
		return Identity{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	payload := string(raw)

	expected := sign(payload, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return Identity{}, ErrInvalidToken
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 || parts[0] == "" {
		return Identity{}, ErrInvalidToken
	}

	isAdmin, err := strconv.ParseBool(parts[1])
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if time.Now().Unix() >= expiry {
		return Identity{}, ErrExpiredToken
	}

	return Identity{VoterID: parts[0], IsAdmin: isAdmin}, nil
}

// IsAdminID reports whether voterID appears in the configured admin list
func IsAdminID(adminIDs []string, voterID string) bool {
	for _, id := range adminIDs {
		if id == voterID {
			return true
		}
	}
	return false
}

func sign(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
