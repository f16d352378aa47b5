package models

import "time"

// Election phases, in lifecycle order
const (
	PhaseClosed            = "CLOSED"
	PhaseNominationsOpen   = "NOMINATIONS_OPEN"
	PhaseNominationsClosed = "NOMINATIONS_CLOSED"
	PhaseVotingOpen        = "VOTING_OPEN"
	PhaseVotingClosed      = "VOTING_CLOSED"
	PhaseResults           = "RESULTS"
	PhaseEnd               = "END"
)

// PhaseOrder is the fixed forward sequence of election phases.
var PhaseOrder = []string{
	PhaseClosed,
	PhaseNominationsOpen,
	PhaseNominationsClosed,
	PhaseVotingOpen,
	PhaseVotingClosed,
	PhaseResults,
	PhaseEnd,
}

// PhaseIndex returns the position of a phase in the lifecycle, or -1 for
// an unknown phase name.
func PhaseIndex(phase string) int {
	for i, p := range PhaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}

// Request types

type SubmitNominationRequest struct {
	CandidateName   string   `json:"candidate_name"`
	ContactEmail    string   `json:"contact_email"`
	DiscordUsername string   `json:"discord_username,omitempty"`
	Roles           []string `json:"roles"`
	Statement       string   `json:"statement"`
	URL             *string  `json:"url,omitempty"`
}

// role -> candidate voter ID; omitted roles are abstentions
type SubmitBallotRequest struct {
	Selections map[string]string `json:"selections"`
}

type CreateElectionRequest struct {
	Name string `json:"name"`
}

type SetMembersRequest struct {
	VoterIDs []string `json:"voter_ids"`
}

type ForcePhaseRequest struct {
	Phase string `json:"phase"`
}

// Response types

type ElectionStateResponse struct {
	State          string `json:"state"`
	ElectionID     string `json:"election_id,omitempty"`
	StateEnteredAt string `json:"state_entered_at,omitempty"`
}

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
}

type SubmitNominationResponse struct {
	Nomination Nomination `json:"nomination"`
}

type SubmitBallotResponse struct {
	CastAt time.Time `json:"cast_at"`
}

// Domain types

type Election struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phase          string    `json:"phase"`
	PhaseEnteredAt time.Time `json:"phase_entered_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type Nomination struct {
	ElectionID      string    `json:"election_id"`
	VoterID         string    `json:"voter_id"`
	CandidateName   string    `json:"candidate_name"`
	ContactEmail    string    `json:"-"` // Never expose in JSON
	DiscordUsername string    `json:"discord_username,omitempty"`
	Roles           []string  `json:"roles"`
	Statement       string    `json:"statement"`
	URL             *string   `json:"url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsRunningFor reports whether the nomination contests the given role.
func (n Nomination) IsRunningFor(role string) bool {
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Ballot struct {
	ElectionID string            `json:"election_id"`
	VoterID    string            `json:"-"` // Never expose in JSON
	Selections map[string]string `json:"selections"`
	CastAt     time.Time         `json:"cast_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BallotPaper is what a voter sees before casting: the candidates
// contesting each role, plus whether they have already voted.
type BallotPaper struct {
	ElectionID string                  `json:"election_id"`
	Candidates map[string][]Nomination `json:"candidates"`
	HasVoted   bool                    `json:"has_voted"`
}

// RoleResult is the aggregate tally for a single role. Ballots are never
// attributable to voters here.
type RoleResult struct {
	Role       string         `json:"role"`
	Tally      map[string]int `json:"tally"` // candidate voter ID -> votes
	Abstained  int            `json:"abstained"`
	TotalVotes int            `json:"total_votes"`
}

type ResultsResponse struct {
	ElectionID string       `json:"election_id"`
	Results    []RoleResult `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
