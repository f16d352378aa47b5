// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election owns the election lifecycle: the phase state machine,
the nomination and ballot stores, and the eligible-member list.

# Phases

An election moves through a fixed forward order:

	CLOSED → NOMINATIONS_OPEN → NOMINATIONS_CLOSED → VOTING_OPEN
	       → VOTING_CLOSED → RESULTS → END

Advance steps to the next phase. Force (admin) jumps forward - most
usefully straight to END to abort a cycle - but can never go backwards.
END is terminal; advancing from it fails with ErrInvalidTransition.

# Phase gating

Store mutations are gated on the current phase:

  - Nominations are created, replaced, or withdrawn only while
    NOMINATIONS_OPEN; last write wins per voter.
  - Ballots are cast or amended only while VOTING_OPEN; once voting
    closes a ballot is immutable and visible only in aggregate.
  - Results are public from RESULTS; admins may preview from
    VOTING_CLOSED.

Operations in the wrong phase fail with ErrPhaseViolation.

# Concurrency

The Manager serialises all mutations under one mutex scoped to the
election singleton: acquire, validate phase, mutate, release. Events are
emitted after the lock is dropped, so mail-transport latency never
blocks state mutation. Forcing END tells the Notifier to discard queued
notifications for the abandoned cycle.

# Eligibility

Admins replace the member list wholesale (SetMembers). Submitting a
nomination or ballot requires the caller's voter ID to be on the list;
ineligible voters fail with ErrUnauthorized.
*/
package election
