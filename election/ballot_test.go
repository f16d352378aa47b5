// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
	"github.com/danielhkuo/fairly-cast/testutil"
)

// setupVotingElection creates a VOTING_OPEN election with one eligible
// voter and two candidates.
func setupVotingElection(t *testing.T, mgr *Manager) string {
	t.Helper()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseVotingOpen)
	testutil.AddTestMembers(t, mgr.db, electionID, voterID.VoterID)
	testutil.AddTestNomination(t, mgr.db, electionID, "z1111111", "president")
	testutil.AddTestNomination(t, mgr.db, electionID, "z2222222", "president", "secretary")
	return electionID
}

func TestSubmitBallot(t *testing.T) {
	mgr, notifier := newTestManager(t)
	ctx := context.Background()
	setupVotingElection(t, mgr)

	ballot, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{
		Selections: map[string]string{"president": "z1111111"},
	})
	if err != nil {
		t.Fatalf("SubmitBallot() error = %v", err)
	}
	if ballot.Selections["president"] != "z1111111" {
		t.Errorf("selection = %q", ballot.Selections["president"])
	}

	// Confirmation goes to the voter's mailbox address
	events := notifier.Events()
	if len(events) != 1 || events[0].Kind != notify.KindBallotConfirmed {
		t.Fatalf("events = %v", events)
	}
	if events[0].Recipient != voterID.VoterID+"@example.org" {
		t.Errorf("recipient = %q", events[0].Recipient)
	}
}

func TestSubmitBallotAmendable(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	setupVotingElection(t, mgr)

	first, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{
		Selections: map[string]string{"president": "z1111111"},
	})
	if err != nil {
		t.Fatal(err)
	}

	second, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{
		Selections: map[string]string{
			"president": "z2222222",
			"secretary": "z2222222",
		},
	})
	if err != nil {
		t.Fatalf("amend error = %v", err)
	}

	// Original cast time survives amendment
	if !second.CastAt.Equal(first.CastAt) {
		t.Errorf("CastAt changed on amend: %v != %v", second.CastAt, first.CastAt)
	}

	stored, err := mgr.GetBallot(ctx, voterID.VoterID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Selections["president"] != "z2222222" {
		t.Errorf("president selection = %q, want z2222222", stored.Selections["president"])
	}
	if len(stored.Selections) != 2 {
		t.Errorf("selections = %v", stored.Selections)
	}
}

func TestSubmitBallotPhaseGate(t *testing.T) {
	phases := []string{
		models.PhaseNominationsOpen,
		models.PhaseNominationsClosed,
		models.PhaseVotingClosed,
		models.PhaseResults,
	}

	for _, phase := range phases {
		t.Run(phase, func(t *testing.T) {
			mgr, _ := newTestManager(t)
			electionID := testutil.CreateTestElection(t, mgr.db, phase)
			testutil.AddTestMembers(t, mgr.db, electionID, voterID.VoterID)
			testutil.AddTestNomination(t, mgr.db, electionID, "z1111111", "president")

			_, err := mgr.SubmitBallot(context.Background(), voterID, models.SubmitBallotRequest{
				Selections: map[string]string{"president": "z1111111"},
			})
			if !errors.Is(err, ErrPhaseViolation) {
				t.Errorf("error = %v, want ErrPhaseViolation", err)
			}
		})
	}
}

func TestSubmitBallotValidatesSelections(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	setupVotingElection(t, mgr)

	tests := []struct {
		name       string
		selections map[string]string
	}{
		{"unknown role", map[string]string{"supreme_leader": "z1111111"}},
		{"candidate not nominated", map[string]string{"president": "z7654321"}},
		{"candidate not running for role", map[string]string{"secretary": "z1111111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{Selections: tt.selections})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}

	// Full abstention is a legal ballot
	if _, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{}); err != nil {
		t.Errorf("empty ballot error = %v", err)
	}
}

func TestSubmitBallotRequiresEligibility(t *testing.T) {
	mgr, _ := newTestManager(t)
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseVotingOpen)
	testutil.AddTestNomination(t, mgr.db, electionID, "z1111111", "president")

	_, err := mgr.SubmitBallot(context.Background(), voterID, models.SubmitBallotRequest{
		Selections: map[string]string{"president": "z1111111"},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestBallotPaper(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	setupVotingElection(t, mgr)

	paper, err := mgr.BallotPaper(ctx, voterID)
	if err != nil {
		t.Fatalf("BallotPaper() error = %v", err)
	}
	if len(paper.Candidates["president"]) != 2 {
		t.Errorf("president candidates = %d, want 2", len(paper.Candidates["president"]))
	}
	if len(paper.Candidates["secretary"]) != 1 {
		t.Errorf("secretary candidates = %d, want 1", len(paper.Candidates["secretary"]))
	}
	if paper.HasVoted {
		t.Error("HasVoted = true before voting")
	}

	if _, err := mgr.SubmitBallot(ctx, voterID, models.SubmitBallotRequest{
		Selections: map[string]string{"president": "z1111111"},
	}); err != nil {
		t.Fatal(err)
	}

	paper, err = mgr.BallotPaper(ctx, voterID)
	if err != nil {
		t.Fatal(err)
	}
	if !paper.HasVoted {
		t.Error("HasVoted = false after voting")
	}
}

func TestBallotPaperBeforeNominationsClose(t *testing.T) {
	mgr, _ := newTestManager(t)
	testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)

	_, err := mgr.BallotPaper(context.Background(), voterID)
	if !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("error = %v, want ErrPhaseViolation", err)
	}
}

func TestResults(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseVotingOpen)
	testutil.AddTestMembers(t, mgr.db, electionID, "z1234567", "z7654321", "z5555555")
	testutil.AddTestNomination(t, mgr.db, electionID, "z1111111", "president")
	testutil.AddTestNomination(t, mgr.db, electionID, "z2222222", "president")

	votes := map[string]string{
		"z1234567": "z1111111",
		"z7654321": "z1111111",
		"z5555555": "z2222222",
	}
	for voter, candidate := range votes {
		_, err := mgr.SubmitBallot(ctx, asVoter(voter), models.SubmitBallotRequest{
			Selections: map[string]string{"president": candidate},
		})
		if err != nil {
			t.Fatalf("ballot for %s: %v", voter, err)
		}
	}

	if err := mgr.Force(ctx, adminID, models.PhaseResults); err != nil {
		t.Fatal(err)
	}

	res, err := mgr.Results(ctx, voterID)
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}

	var president models.RoleResult
	for _, r := range res.Results {
		if r.Role == "president" {
			president = r
		}
	}
	if president.Tally["z1111111"] != 2 || president.Tally["z2222222"] != 1 {
		t.Errorf("tally = %v", president.Tally)
	}
	if president.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", president.TotalVotes)
	}
	if president.Abstained != 0 {
		t.Errorf("Abstained = %d, want 0", president.Abstained)
	}

	// Every ballot abstained on secretary
	for _, r := range res.Results {
		if r.Role == "secretary" && r.Abstained != 3 {
			t.Errorf("secretary abstained = %d, want 3", r.Abstained)
		}
	}
}

func TestResultsVisibility(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	testutil.CreateTestElection(t, mgr.db, models.PhaseVotingClosed)

	// Public callers wait for RESULTS
	if _, err := mgr.Results(ctx, voterID); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("voter preview: error = %v, want ErrPhaseViolation", err)
	}

	// Admins may preview once voting closes
	if _, err := mgr.Results(ctx, adminID); err != nil {
		t.Errorf("admin preview: error = %v", err)
	}
}

func asVoter(id string) auth.Identity { return auth.Identity{VoterID: id} }
