// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Fairly Cast API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - ElectionHandler: Election state and the phase-change event stream
  - NominationHandler: Nomination submit, read, withdraw, candidate lists
  - BallotHandler: Ballot paper retrieval and ballot submission
  - ResultsHandler: Aggregate result retrieval
  - AdminHandler: Election lifecycle administration
  - InboundHandler: Inbound mail webhook

Handlers are created via constructor functions:

	nominationHandler := handlers.NewNominationHandler(mgr, cfg)

# Authentication

Voter and admin operations require an Authorization: Bearer header
carrying an HMAC session token. requireIdentity resolves it to an
auth.Identity or writes a 401. Admin routes additionally check
Identity.IsAdmin inside the election manager.

# Error Mapping

Domain errors map to HTTP status codes in writeDomainError:

	ValidationError        → 400
	ErrPhaseViolation      → 403
	ErrNoElection          → 403
	ErrUnauthorized        → 403
	ErrInvalidTransition   → 409
	ErrAlreadyRunning      → 409
	ErrInvalidToken/Expired → 401
	anything else          → 500

Notification delivery failures never surface here; the dispatcher
absorbs them.

# Inbound Mail

POST /inbound/email accepts a raw RFC 5322 message and always responds
204 regardless of routing outcome, so senders cannot probe the
allow-list through status codes.
*/
package handlers
