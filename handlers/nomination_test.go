// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/testutil"
)

func nominationBody() models.SubmitNominationRequest {
	return models.SubmitNominationRequest{
		CandidateName: "Alex Chen",
		ContactEmail:  "alex@example.org",
		Roles:         []string{"president"},
		Statement:     "I will do the thing.",
	}
}

func TestSubmitNominationEndpoint(t *testing.T) {
	env := setupEnv(t)
	handler := NewNominationHandler(env.mgr, testutil.GetTestConfig())
	electionID := testutil.CreateTestElection(t, env.db, models.PhaseNominationsOpen)
	testutil.AddTestMembers(t, env.db, electionID, testVoter)

	tests := []struct {
		name       string
		token      string
		mutate     func(*models.SubmitNominationRequest)
		wantStatus int
	}{
		{
			name:       "valid submission",
			token:      testutil.VoterToken(testVoter),
			mutate:     func(r *models.SubmitNominationRequest) {},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "resubmission replaces",
			token:      testutil.VoterToken(testVoter),
			mutate:     func(r *models.SubmitNominationRequest) { r.Roles = []string{"secretary"} },
			wantStatus: http.StatusCreated,
		},
		{
			name:       "validation failure",
			token:      testutil.VoterToken(testVoter),
			mutate:     func(r *models.SubmitNominationRequest) { r.Statement = "" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ineligible voter",
			token:      testutil.VoterToken("z7654321"),
			mutate:     func(r *models.SubmitNominationRequest) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token",
			token:      "",
			mutate:     func(r *models.SubmitNominationRequest) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := nominationBody()
			tt.mutate(&body)

			headers := map[string]string{}
			if tt.token != "" {
				headers = testutil.AuthHeader(tt.token)
			}
			req := testutil.MakeRequest("POST", "/nomination", body, headers)
			w := httptest.NewRecorder()

			handler.Submit(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	// Last write wins: the stored nomination carries the amended roles
	nom, err := env.mgr.GetNomination(context.Background(), testVoter)
	if err != nil {
		t.Fatal(err)
	}
	if nom == nil || len(nom.Roles) != 1 || nom.Roles[0] != "secretary" {
		t.Errorf("stored nomination roles = %v, want [secretary]", nom)
	}
}

func TestSubmitNominationClosedPhase(t *testing.T) {
	env := setupEnv(t)
	handler := NewNominationHandler(env.mgr, testutil.GetTestConfig())
	electionID := testutil.CreateTestElection(t, env.db, models.PhaseVotingOpen)
	testutil.AddTestMembers(t, env.db, electionID, testVoter)

	req := testutil.MakeRequest("POST", "/nomination", nominationBody(),
		testutil.AuthHeader(testutil.VoterToken(testVoter)))
	w := httptest.NewRecorder()

	handler.Submit(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestGetNominationEndpoint(t *testing.T) {
	env := setupEnv(t)
	handler := NewNominationHandler(env.mgr, testutil.GetTestConfig())
	electionID := testutil.CreateTestElection(t, env.db, models.PhaseNominationsOpen)
	testutil.AddTestNomination(t, env.db, electionID, testVoter, "president")

	tests := []struct {
		name       string
		token      string
		voterID    string
		wantStatus int
	}{
		{"own nomination", testutil.VoterToken(testVoter), testVoter, http.StatusOK},
		{"admin reads anyone", testutil.AdminToken(testAdmin), testVoter, http.StatusOK},
		{"other voter forbidden", testutil.VoterToken("z7654321"), testVoter, http.StatusForbidden},
		{"absent nomination", testutil.VoterToken("z7654321"), "z7654321", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/nomination/"+tt.voterID, nil,
				testutil.AuthHeader(tt.token))
			req.SetPathValue("voterId", tt.voterID)
			w := httptest.NewRecorder()

			handler.Get(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestDeleteNominationEndpoint(t *testing.T) {
	env := setupEnv(t)
	handler := NewNominationHandler(env.mgr, testutil.GetTestConfig())
	electionID := testutil.CreateTestElection(t, env.db, models.PhaseNominationsOpen)
	testutil.AddTestNomination(t, env.db, electionID, testVoter, "president")

	req := testutil.MakeRequest("DELETE", "/nomination", nil,
		testutil.AuthHeader(testutil.VoterToken(testVoter)))
	w := httptest.NewRecorder()

	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	nom, err := env.mgr.GetNomination(req.Context(), testVoter)
	if err != nil {
		t.Fatal(err)
	}
	if nom != nil {
		t.Error("nomination still present after withdrawal")
	}
}

func TestListForRoleEndpoint(t *testing.T) {
	env := setupEnv(t)
	handler := NewNominationHandler(env.mgr, testutil.GetTestConfig())
	electionID := testutil.CreateTestElection(t, env.db, models.PhaseNominationsClosed)
	testutil.AddTestNomination(t, env.db, electionID, testVoter, "president")

	req := testutil.MakeRequest("GET", "/roles/president/nominations", nil, nil)
	req.SetPathValue("role", "president")
	w := httptest.NewRecorder()

	handler.ListForRole(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var noms []models.Nomination
	testutil.AssertJSON(t, w, &noms)
	if len(noms) != 1 {
		t.Errorf("candidates = %d, want 1", len(noms))
	}

	// Uncontested role returns an empty array, not null
	req = testutil.MakeRequest("GET", "/roles/treasurer/nominations", nil, nil)
	req.SetPathValue("role", "treasurer")
	w = httptest.NewRecorder()

	handler.ListForRole(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body == "null\n" {
		t.Error("expected empty array, got null")
	}
}
