// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/fairly-cast/mailroom"
)

// Inbound mail webhooks get at most 256 KiB of raw MIME.
const maxInboundBytes = 256 << 10

type InboundHandler struct {
	router *mailroom.Router
}

func NewInboundHandler(router *mailroom.Router) *InboundHandler {
	return &InboundHandler{router: router}
}

// Receive handles POST /inbound/email
// Accepts a raw RFC 5322 message and routes it. The response is always
// 204: inbound mail is fire-and-forget, and senders learn nothing from
// the status code about whether they were allow-listed.
func (h *InboundHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxInboundBytes))
	if err != nil {
		slog.Warn("failed to read inbound message body", "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	outcome := h.router.Route(raw)
	slog.Info("inbound message routed", "outcome", outcome)

	w.WriteHeader(http.StatusNoContent)
}
