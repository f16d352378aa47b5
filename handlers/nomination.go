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

type NominationHandler struct {
	mgr *election.Manager
	cfg cliparse.Config
}

func NewNominationHandler(mgr *election.Manager, cfg cliparse.Config) *NominationHandler {
	return &NominationHandler{mgr: mgr, cfg: cfg}
}

// Submit handles POST /nomination
// Creates or replaces the caller's nomination while nominations are
// open. Resubmitting replaces the previous one (last write wins).
func (h *NominationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.SubmitNominationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	nom, err := h.mgr.SubmitNomination(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitNominationResponse{
		Nomination: *nom,
	})
}

// Get handles GET /nomination/{voterId}
// A voter can read their own nomination; admins can read anyone's.
func (h *NominationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	voterID := r.PathValue("voterId")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voterId is required")
		return
	}
	if voterID != id.VoterID && !id.IsAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "not authorized")
		return
	}

	nom, err := h.mgr.GetNomination(r.Context(), voterID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if nom == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "nomination not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, nom)
}

// Delete handles DELETE /nomination
// Withdraws the caller's nomination while nominations are open.
func (h *NominationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	if err := h.mgr.DeleteNomination(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForRole handles GET /roles/{role}/nominations
// Public candidate listing, available once nominations have closed.
func (h *NominationHandler) ListForRole(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	if role == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role is required")
		return
	}

	noms, err := h.mgr.ListNominationsForRole(r.Context(), role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if noms == nil {
		noms = []models.Nomination{}
	}

	middleware.JSONResponse(w, http.StatusOK, noms)
}
