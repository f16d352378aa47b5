// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves session credentials to authenticated identities.

# Session Tokens

Tokens use HMAC-SHA256 over a "voterID|isAdmin|expiry" payload:

	token := auth.MintToken(auth.Identity{VoterID: "z1234567"}, secret, 30*time.Minute)
	id, err := auth.Authenticate(token, secret)

Verification is constant-time on the signature. Tampered or malformed
tokens fail with ErrInvalidToken, stale ones with ErrExpiredToken. Since
the token is self-verifying, no session state is stored in the database.

# Admin Capability

Admin status is carried inside the signed payload. Which voter IDs hold
it is configuration (cliparse.Config.AdminIDs):

	isAdmin := auth.IsAdminID(cfg.AdminIDs, "z1234567")

# Scope

Issuing the initial credential (the one-time-passcode email exchange) is
handled outside this server; MintToken exists for that issuer and for
tests. Every mutating operation in the API consumes Authenticate.
*/
package auth
