// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

// Kind identifies the notification template and dedup class of an event
type Kind string

const (
	KindNominationConfirmed Kind = "nomination_confirmed"
	KindBallotConfirmed     Kind = "ballot_confirmed"
	KindPhaseChanged        Kind = "phase_changed"
	KindReply               Kind = "reply"
)

// Event is an ephemeral notification produced by the election manager or
// the inbound mail router. It is created, dispatched, then discarded.
type Event struct {
	ID   string
	Kind Kind

	// Recipient is the destination address. Empty for fan-out events
	// (phase changes), which go to subscribers instead of the mail
	// transport.
	Recipient string

	// CorrelationID threads a reply to its originating Message-ID and
	// keys the dedup ledger. Empty when the event is not a reply.
	CorrelationID string

	// Data feeds the kind-specific subject/body templates
	Data map[string]string
}

// dedupKey identifies the at-most-once tuple for ledger lookups
func (e Event) dedupKey() string {
	return string(e.Kind) + "|" + e.Recipient + "|" + e.CorrelationID
}
