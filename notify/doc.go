// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify composes and delivers notification emails for election
events and inbound-mail replies.

# Events

An Event carries a kind, a recipient, an optional correlation ID (the
originating Message-ID when replying) and template data:

	dispatcher.Dispatch(notify.Event{
		ID:        uuid.NewString(),
		Kind:      notify.KindNominationConfirmed,
		Recipient: "jane@example.com",
		Data:      map[string]string{"candidate_name": "Jane"},
	})

Events with an empty Recipient (phase changes) are fanned out to
Subscribe channels instead of being mailed; downstream consumers decide
who, if anyone, to notify.

# Delivery

A single worker goroutine drains the queue, so no caller ever blocks on
the mail transport. Transient failures are retried with exponential
backoff (3 attempts, 30s total budget); failures wrapped in
PermanentError are not retried. After retries are exhausted the worker
logs ErrDeliveryFailed - a notification failure never rolls back the
mutation that emitted it.

# Deduplication

Events carrying a correlation ID are sent at most once per
(kind, recipient, correlation ID) tuple. The ledger is a bounded LRU and
records a tuple only after the transport accepts a send, so redelivery
of a failed event stays retriable.

# Transports

Transport is the external mail-sending capability:

  - ConsoleTransport logs instead of sending (development, tests)
  - ResendTransport sends through the Resend API

Discard drops queued events and clears the ledger; the election manager
calls it when an election is forced to END.
*/
package notify
