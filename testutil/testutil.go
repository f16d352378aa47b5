// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/db"
	"github.com/danielhkuo/fairly-cast/notify"
)

// TestSecret signs session tokens in tests
const TestSecret = "test-session-secret"

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each test gets its own database; closing is handled by
// t.Cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second pool connection would get its own empty :memory: database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		SessionSecret:    TestSecret,
		AdminIDs:         []string{"z9999999"},
		Roles:            cliparse.DefaultRoles,
		MailFrom:         "elections@example.org",
		VoterEmailDomain: "example.org",
		ReplyAllowlist: map[string]string{
			"member@example.org": "ack",
		},
	}
}

// VoterToken mints a session token for an ordinary voter
func VoterToken(voterID string) string {
	return auth.MintToken(auth.Identity{VoterID: voterID}, TestSecret, time.Hour)
}

// AdminToken mints a session token carrying the admin flag
func AdminToken(voterID string) string {
	return auth.MintToken(auth.Identity{VoterID: voterID, IsAdmin: true}, TestSecret, time.Hour)
}

// CreateTestElection inserts an election at the given phase and returns
// its ID
func CreateTestElection(t *testing.T, conn *sql.DB, phase string) string {
	t.Helper()

	electionID := uuid.NewString()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO election (id, name, phase, phase_entered_at, created_at)
		VALUES ($1, 'Test Election', $2, $3, $4)
	`, electionID, phase, now, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// AddTestMembers puts voter IDs on the eligible list for an election
func AddTestMembers(t *testing.T, conn *sql.DB, electionID string, voterIDs ...string) {
	t.Helper()

	for _, v := range voterIDs {
		_, err := conn.Exec(`
			INSERT INTO election_member (election_id, voter_id)
			VALUES ($1, $2)
		`, electionID, v)
		if err != nil {
			t.Fatalf("Failed to add test member: %v", err)
		}
	}
}

// AddTestNomination inserts a nomination for a voter contesting the
// given roles
func AddTestNomination(t *testing.T, conn *sql.DB, electionID, voterID string, roles ...string) {
	t.Helper()

	rolesJSON, _ := json.Marshal(roles)
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO nomination (election_id, voter_id, candidate_name, contact_email,
			discord_username, roles, statement, created_at, updated_at)
		VALUES ($1, $2, 'Test Candidate', 'candidate@example.org', '', $3, 'A statement', $4, $5)
	`, electionID, voterID, string(rolesJSON), now, now)
	if err != nil {
		t.Fatalf("Failed to add test nomination: %v", err)
	}
}

// SentMail is one message accepted by the recording transport
type SentMail struct {
	From string
	To   string
	Msg  notify.Message
}

// RecordingTransport implements notify.Transport and records every
// accepted send. FailTimes rejects the first N attempts with Err so
// retry behavior can be exercised.
type RecordingTransport struct {
	mu        sync.Mutex
	sent      []SentMail
	attempts  int
	FailTimes int
	Err       error
}

func (rt *RecordingTransport) Send(ctx context.Context, from, to string, msg notify.Message) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.attempts++
	if rt.attempts <= rt.FailTimes {
		return rt.Err
	}
	rt.sent = append(rt.sent, SentMail{From: from, To: to, Msg: msg})
	return nil
}

// Sent returns a copy of the accepted sends
func (rt *RecordingTransport) Sent() []SentMail {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]SentMail(nil), rt.sent...)
}

// Attempts returns the total number of Send calls, including failures
func (rt *RecordingTransport) Attempts() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.attempts
}

// RecordingNotifier satisfies the election manager's notifier interface
// without a worker goroutine: events are captured synchronously.
type RecordingNotifier struct {
	mu       sync.Mutex
	events   []notify.Event
	discards int
}

func (rn *RecordingNotifier) Dispatch(evt notify.Event) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.events = append(rn.events, evt)
}

func (rn *RecordingNotifier) Discard() {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.events = nil
	rn.discards++
}

// Events returns a copy of the captured events
func (rn *RecordingNotifier) Events() []notify.Event {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return append([]notify.Event(nil), rn.events...)
}

// Discards returns how many times Discard was called
func (rn *RecordingNotifier) Discards() int {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return rn.discards
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader builds the Authorization header map for a token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
