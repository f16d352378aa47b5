// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/middleware"
)

// writeDomainError maps election/auth errors onto HTTP status codes:
// phase and eligibility problems are 403, malformed payloads 400, bad
// credentials 401, state machine misuse 409, anything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *election.ValidationError

	switch {
	case errors.As(err, &ve):
		middleware.ErrorResponse(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, election.ErrPhaseViolation):
		middleware.ErrorResponse(w, http.StatusForbidden, "operation not valid in current election phase")
	case errors.Is(err, election.ErrNoElection):
		middleware.ErrorResponse(w, http.StatusForbidden, "no election is currently running")
	case errors.Is(err, election.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, election.ErrInvalidTransition):
		// should not occur under a correct client; log loudly
		slog.Error("invalid phase transition requested", "error", err)
		middleware.ErrorResponse(w, http.StatusConflict, "invalid phase transition")
	case errors.Is(err, election.ErrAlreadyRunning):
		middleware.ErrorResponse(w, http.StatusConflict, "an election is already running")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired session")
	default:
		slog.Error("internal error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// requireIdentity resolves the bearer token or writes a 401. The
// token's admin claim is honored only for voters on the configured
// admin list; anyone else is downgraded to an ordinary voter.
func requireIdentity(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (auth.Identity, bool) {
	id, err := middleware.Identity(r, cfg.SessionSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired session")
		return auth.Identity{}, false
	}

	if id.IsAdmin && !auth.IsAdminID(cfg.AdminIDs, id.VoterID) {
		slog.Warn("admin claim for voter outside admin list", "voter_id", id.VoterID)
		id.IsAdmin = false
	}
	return id, true
}
