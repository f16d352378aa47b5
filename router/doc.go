// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Fairly Cast API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, mgr, dispatcher)

# Endpoints

Health:

	GET /health

Election state (public):

	GET /election/state  - Current phase and election id
	GET /election/stream - Server-sent events for phase changes

Nominations (requires Bearer token):

	POST   /nomination           - Submit or amend a nomination
	DELETE /nomination           - Withdraw nomination
	GET    /nomination/{voterId} - Read a nomination (self or admin)

Candidate listing (public once nominations close):

	GET /roles/{role}/nominations

Voting (requires Bearer token):

	GET  /ballot  - Ballot paper: candidates per role, has_voted
	POST /ballot  - Cast or amend ballot (VOTING_OPEN only)

Results:

	GET /results - Aggregate tallies (RESULTS; admin preview from VOTING_CLOSED)

Election administration (requires admin Bearer token):

	POST /admin/election         - Create election
	PUT  /admin/election/members - Replace eligible-voter list
	POST /admin/election/advance - Advance to next phase
	PUT  /admin/election/state   - Force a forward phase jump

Inbound mail:

	POST /inbound/email - Raw MIME webhook (always 204)

# Handler Initialization

The router creates handler instances with dependency injection:

	electionHandler := handlers.NewElectionHandler(mgr, dispatcher, cfg)
	nominationHandler := handlers.NewNominationHandler(mgr, cfg)
	ballotHandler := handlers.NewBallotHandler(mgr, cfg)
	resultsHandler := handlers.NewResultsHandler(mgr, cfg)
	adminHandler := handlers.NewAdminHandler(mgr, cfg)
	inboundHandler := handlers.NewInboundHandler(mailRouter)

Handlers receive the election manager, notification dispatcher, and
configuration rather than raw database handles; all persistence goes
through the manager.
*/
package router
