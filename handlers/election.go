// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/middleware"
	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
)

type ElectionHandler struct {
	mgr        *election.Manager
	dispatcher *notify.Dispatcher
	cfg        cliparse.Config
}

func NewElectionHandler(mgr *election.Manager, dispatcher *notify.Dispatcher, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{mgr: mgr, dispatcher: dispatcher, cfg: cfg}
}

// GetState handles GET /election/state
// Public: the current phase drives what the front-end renders.
func (h *ElectionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	el, err := h.mgr.CurrentElection(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if el == nil {
		middleware.JSONResponse(w, http.StatusOK, models.ElectionStateResponse{
			State: "NO_ELECTION",
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionStateResponse{
		State:          el.Phase,
		ElectionID:     el.ID,
		StateEnteredAt: el.PhaseEnteredAt.Format(time.RFC3339),
	})
}

// Stream handles GET /election/stream
// Server-sent events: pushes phase changes to connected clients.
func (h *ElectionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.dispatcher.Subscribe()
	defer h.dispatcher.Unsubscribe(events)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-events:
			payload, err := json.Marshal(evt.Data)
			if err != nil {
				slog.Error("failed to encode stream event", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
