// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitNominationRequest: candidate_name, contact_email, roles, statement, url
  - SubmitBallotRequest: selections (map[role]candidate voter ID)
  - CreateElectionRequest: name
  - SetMembersRequest: voter_ids
  - ForcePhaseRequest: phase

# Response Types

Types for JSON responses:

  - ElectionStateResponse: state, election_id, state_entered_at
  - CreateElectionResponse: election_id
  - SubmitNominationResponse: nomination
  - SubmitBallotResponse: cast_at
  - ResultsResponse: election_id, results
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Election: election metadata and current phase
  - Nomination: a voter's candidacy (roles, statement, contacts)
  - Ballot: a voter's selections and timestamps
  - BallotPaper: candidates per role plus has_voted
  - RoleResult: aggregate tally for one role

Contact emails and ballot voter IDs are never serialized; results are
aggregate-only by construction.

# Constants

Election phases, in lifecycle order:

	PhaseClosed            = "CLOSED"
	PhaseNominationsOpen   = "NOMINATIONS_OPEN"
	PhaseNominationsClosed = "NOMINATIONS_CLOSED"
	PhaseVotingOpen        = "VOTING_OPEN"
	PhaseVotingClosed      = "VOTING_CLOSED"
	PhaseResults           = "RESULTS"
	PhaseEnd               = "END"

PhaseOrder holds the same sequence as a slice; PhaseIndex maps a phase
name to its position (-1 when unknown).
*/
package models
