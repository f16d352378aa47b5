// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Message is a composed outbound email, ready for a transport
type Message struct {
	Subject   string
	Body      string
	InReplyTo string // threads the message when set
}

// Transport delivers a composed message. Implementations classify
// failures: errors wrapped in PermanentError are never retried, anything
// else is treated as transient.
type Transport interface {
	Send(ctx context.Context, from, to string, msg Message) error
}

// PermanentError marks a delivery failure that retrying cannot fix
// (rejected address, malformed message).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent delivery failure: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err carries a PermanentError anywhere in
// its chain.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// ConsoleTransport logs outbound mail instead of sending it. Used in
// development and tests.
type ConsoleTransport struct{}

func (ConsoleTransport) Send(ctx context.Context, from, to string, msg Message) error {
	slog.Info("outbound mail",
		"from", from,
		"to", to,
		"subject", msg.Subject,
		"in_reply_to", msg.InReplyTo,
	)
	return nil
}
