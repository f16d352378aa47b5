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

// AdminHandler covers the operations that drive an election cycle:
// creating it, loading the member list, and moving it through phases.
// Authorization is enforced by the election manager, which rejects
// non-admin identities.
type AdminHandler struct {
	mgr *election.Manager
	cfg cliparse.Config
}

func NewAdminHandler(mgr *election.Manager, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{mgr: mgr, cfg: cfg}
}

// CreateElection handles POST /admin/election
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	electionID, err := h.mgr.CreateElection(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
	})
}

// SetMembers handles PUT /admin/election/members
func (h *AdminHandler) SetMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.SetMembersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.mgr.SetMembers(r.Context(), id, req.VoterIDs); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Advance handles POST /admin/election/advance
func (h *AdminHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	next, err := h.mgr.Advance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionStateResponse{State: next})
}

// Force handles PUT /admin/election/state
// Jumps the election forward to an arbitrary later phase, or to END to
// abort the cycle.
func (h *AdminHandler) Force(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.ForcePhaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.mgr.Force(r.Context(), id, req.Phase); err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionStateResponse{State: req.Phase})
}
