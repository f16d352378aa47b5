// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailroom

import (
	"bytes"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/fairly-cast/notify"
)

// Outcome reports what Route did with an inbound message. Routing never
// fails: anything that cannot be handled becomes a dead letter.
type Outcome int

const (
	// OutcomeReplied: the sender was allow-listed and a reply was
	// dispatched
	OutcomeReplied Outcome = iota

	// OutcomeRejected: the sender is not on the allow-list; fail-closed,
	// no reply
	OutcomeRejected

	// OutcomeDeadLetter: the message could not be parsed; dropped and
	// logged, no reply
	OutcomeDeadLetter
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDeadLetter:
		return "dead_letter"
	default:
		return "unknown"
	}
}

// Dispatcher is the downstream consumer of reply events. Satisfied by
// *notify.Dispatcher.
type Dispatcher interface {
	Dispatch(evt notify.Event)
}

// Router parses inbound email, applies the sender allow-list, and turns
// accepted messages into reply events.
type Router struct {
	// address (lowercased) -> reply action
	allowlist  map[string]string
	dispatcher Dispatcher
}

func NewRouter(allowlist map[string]string, dispatcher Dispatcher) *Router {
	return &Router{allowlist: allowlist, dispatcher: dispatcher}
}

// Route handles one raw inbound message. Unknown senders get silence,
// unparsable messages get dropped; neither is an error to the caller -
// the upstream mail system has nowhere useful to put one.
func (rt *Router) Route(raw []byte) Outcome {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		slog.Warn("dead-letter: unparsable inbound mail", "error", err)
		return OutcomeDeadLetter
	}

	from, err := mail.ParseAddress(msg.Header.Get("From"))
	if err != nil {
		slog.Warn("dead-letter: inbound mail without valid From", "error", err)
		return OutcomeDeadLetter
	}
	sender := strings.ToLower(from.Address)

	action, ok := rt.allowlist[sender]
	if !ok {
		slog.Info("rejected inbound mail from unknown sender", "sender", sender)
		return OutcomeRejected
	}

	messageID := strings.TrimSpace(msg.Header.Get("Message-ID"))

	slog.Info("routing inbound mail",
		"sender", sender,
		"action", action,
		"message_id", messageID,
	)

	rt.dispatcher.Dispatch(notify.Event{
		ID:            uuid.NewString(),
		Kind:          notify.KindReply,
		Recipient:     from.Address,
		CorrelationID: messageID,
		Data: map[string]string{
			"action":  action,
			"subject": msg.Header.Get("Subject"),
		},
	})
	return OutcomeReplied
}
