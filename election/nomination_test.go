// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
	"github.com/danielhkuo/fairly-cast/testutil"
)

func validNomination() models.SubmitNominationRequest {
	return models.SubmitNominationRequest{
		CandidateName: "Alex Chen",
		ContactEmail:  "alex@example.org",
		Roles:         []string{"president"},
		Statement:     "I will do the thing.",
	}
}

func TestSubmitNomination(t *testing.T) {
	mgr, notifier := newTestManager(t)
	ctx := context.Background()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)
	testutil.AddTestMembers(t, mgr.db, electionID, voterID.VoterID)

	nom, err := mgr.SubmitNomination(ctx, voterID, validNomination())
	if err != nil {
		t.Fatalf("SubmitNomination() error = %v", err)
	}
	if nom.VoterID != voterID.VoterID {
		t.Errorf("VoterID = %q", nom.VoterID)
	}

	// Confirmation goes to the contact address
	events := notifier.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Kind != notify.KindNominationConfirmed {
		t.Errorf("event kind = %v", events[0].Kind)
	}
	if events[0].Recipient != "alex@example.org" {
		t.Errorf("event recipient = %q", events[0].Recipient)
	}
}

func TestSubmitNominationUpsert(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)
	testutil.AddTestMembers(t, mgr.db, electionID, voterID.VoterID)

	first, err := mgr.SubmitNomination(ctx, voterID, validNomination())
	if err != nil {
		t.Fatal(err)
	}

	amended := validNomination()
	amended.Statement = "Revised statement."
	amended.Roles = []string{"president", "secretary"}

	second, err := mgr.SubmitNomination(ctx, voterID, amended)
	if err != nil {
		t.Fatalf("amend error = %v", err)
	}

	// Last write wins, original creation time survives
	if second.Statement != "Revised statement." {
		t.Errorf("Statement = %q", second.Statement)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %v != %v", second.CreatedAt, first.CreatedAt)
	}

	stored, err := mgr.GetNomination(ctx, voterID.VoterID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Roles) != 2 {
		t.Errorf("stored roles = %v", stored.Roles)
	}
}

func TestSubmitNominationPhaseGate(t *testing.T) {
	phases := []string{
		models.PhaseClosed,
		models.PhaseNominationsClosed,
		models.PhaseVotingOpen,
		models.PhaseVotingClosed,
		models.PhaseResults,
	}

	for _, phase := range phases {
		t.Run(phase, func(t *testing.T) {
			mgr, _ := newTestManager(t)
			electionID := testutil.CreateTestElection(t, mgr.db, phase)
			testutil.AddTestMembers(t, mgr.db, electionID, voterID.VoterID)

			_, err := mgr.SubmitNomination(context.Background(), voterID, validNomination())
			if !errors.Is(err, ErrPhaseViolation) {
				t.Errorf("error = %v, want ErrPhaseViolation", err)
			}
		})
	}
}

func TestSubmitNominationRequiresEligibility(t *testing.T) {
	mgr, _ := newTestManager(t)
	testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)
	// voter not on the member list

	_, err := mgr.SubmitNomination(context.Background(), voterID, validNomination())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestValidateNomination(t *testing.T) {
	mgr, _ := newTestManager(t)
	httpsURL := "https://example.org/platform"
	ftpURL := "ftp://example.org/platform"

	tests := []struct {
		name   string
		mutate func(*models.SubmitNominationRequest)
		ok     bool
	}{
		{"valid", func(r *models.SubmitNominationRequest) {}, true},
		{"valid with url", func(r *models.SubmitNominationRequest) { r.URL = &httpsURL }, true},
		{"missing name", func(r *models.SubmitNominationRequest) { r.CandidateName = "" }, false},
		{"missing email", func(r *models.SubmitNominationRequest) { r.ContactEmail = "" }, false},
		{"email without at", func(r *models.SubmitNominationRequest) { r.ContactEmail = "nope" }, false},
		{"missing statement", func(r *models.SubmitNominationRequest) { r.Statement = "" }, false},
		{"empty roles", func(r *models.SubmitNominationRequest) { r.Roles = nil }, false},
		{"unknown role", func(r *models.SubmitNominationRequest) { r.Roles = []string{"supreme_leader"} }, false},
		{"duplicate role", func(r *models.SubmitNominationRequest) { r.Roles = []string{"president", "president"} }, false},
		{"non-http url", func(r *models.SubmitNominationRequest) { r.URL = &ftpURL }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validNomination()
			tt.mutate(&req)

			err := mgr.validateNomination(req)
			if tt.ok && err != nil {
				t.Errorf("validateNomination() error = %v, want nil", err)
			}
			if !tt.ok {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("validateNomination() error = %v, want ValidationError", err)
				}
			}
		})
	}
}

func TestGetNominationAbsent(t *testing.T) {
	mgr, _ := newTestManager(t)
	testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)

	nom, err := mgr.GetNomination(context.Background(), "z7654321")
	if err != nil {
		t.Fatalf("GetNomination() error = %v", err)
	}
	if nom != nil {
		t.Errorf("GetNomination() = %v, want nil", nom)
	}
}

func TestDeleteNomination(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)
	testutil.AddTestNomination(t, mgr.db, electionID, voterID.VoterID, "president")

	if err := mgr.DeleteNomination(ctx, voterID); err != nil {
		t.Fatalf("DeleteNomination() error = %v", err)
	}

	nom, err := mgr.GetNomination(ctx, voterID.VoterID)
	if err != nil {
		t.Fatal(err)
	}
	if nom != nil {
		t.Error("nomination still present after withdrawal")
	}

	// Withdrawing nothing is fine
	if err := mgr.DeleteNomination(ctx, voterID); err != nil {
		t.Errorf("second delete error = %v", err)
	}
}

func TestDeleteNominationPhaseGate(t *testing.T) {
	mgr, _ := newTestManager(t)
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsClosed)
	testutil.AddTestNomination(t, mgr.db, electionID, voterID.VoterID, "president")

	err := mgr.DeleteNomination(context.Background(), voterID)
	if !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("error = %v, want ErrPhaseViolation", err)
	}
}

func TestListNominationsForRole(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	electionID := testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsClosed)
	testutil.AddTestNomination(t, mgr.db, electionID, "z1111111", "president")
	testutil.AddTestNomination(t, mgr.db, electionID, "z2222222", "president", "secretary")
	testutil.AddTestNomination(t, mgr.db, electionID, "z3333333", "treasurer")

	noms, err := mgr.ListNominationsForRole(ctx, "president")
	if err != nil {
		t.Fatalf("ListNominationsForRole() error = %v", err)
	}
	if len(noms) != 2 {
		t.Errorf("president candidates = %d, want 2", len(noms))
	}

	noms, err = mgr.ListNominationsForRole(ctx, "edi_officer")
	if err != nil {
		t.Fatalf("uncontested role error = %v", err)
	}
	if len(noms) != 0 {
		t.Errorf("uncontested role candidates = %d, want 0", len(noms))
	}

	// Unknown role is a validation error
	if _, err := mgr.ListNominationsForRole(ctx, "supreme_leader"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestListNominationsForRoleBeforeClose(t *testing.T) {
	mgr, _ := newTestManager(t)
	testutil.CreateTestElection(t, mgr.db, models.PhaseNominationsOpen)

	_, err := mgr.ListNominationsForRole(context.Background(), "president")
	if !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("error = %v, want ErrPhaseViolation", err)
	}
}
