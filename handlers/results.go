// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/middleware"
)

type ResultsHandler struct {
	mgr *election.Manager
	cfg cliparse.Config
}

func NewResultsHandler(mgr *election.Manager, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{mgr: mgr, cfg: cfg}
}

// Get handles GET /results
// Aggregate per-role tallies. Admins can preview from VOTING_CLOSED;
// everyone else waits for RESULTS.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	results, err := h.mgr.Results(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
