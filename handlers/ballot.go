// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/middleware"
	"github.com/danielhkuo/fairly-cast/models"
)

type BallotHandler struct {
	mgr *election.Manager
	cfg cliparse.Config
}

func NewBallotHandler(mgr *election.Manager, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{mgr: mgr, cfg: cfg}
}

// GetPaper handles GET /ballot
// Returns the candidates per role and whether the caller has voted.
func (h *BallotHandler) GetPaper(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	paper, err := h.mgr.BallotPaper(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, paper)
}

// Submit handles POST /ballot
// Casts or amends the caller's ballot while voting is open.
func (h *BallotHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ballot, err := h.mgr.SubmitBallot(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		CastAt: ballot.CastAt,
	})
}
