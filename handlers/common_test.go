// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/testutil"
)

// testEnv bundles the wiring every handler test needs
type testEnv struct {
	db       *sql.DB
	mgr      *election.Manager
	notifier *testutil.RecordingNotifier
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	notifier := &testutil.RecordingNotifier{}
	mgr := election.NewManager(conn, testutil.GetTestConfig(), notifier)
	return &testEnv{db: conn, mgr: mgr, notifier: notifier}
}

const (
	testVoter = "z1234567"
	testAdmin = "z9999999"
)
