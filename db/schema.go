// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// Timestamps are written by the application so the same DDL works on
// both SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Elections. At most one row is "current" (phase != 'END'); the
-- election manager enforces that on creation.
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT 'CLOSED' CHECK (phase IN
        ('CLOSED', 'NOMINATIONS_OPEN', 'NOMINATIONS_CLOSED',
         'VOTING_OPEN', 'VOTING_CLOSED', 'RESULTS', 'END')),
    phase_entered_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_phase ON election(phase);

-- Eligible voters for an election
CREATE TABLE IF NOT EXISTS election_member (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    PRIMARY KEY (election_id, voter_id)
);

-- Nominations: one per voter per election. roles holds a JSON array so
-- the column round-trips identically on SQLite and PostgreSQL.
CREATE TABLE IF NOT EXISTS nomination (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    candidate_name TEXT NOT NULL,
    contact_email TEXT NOT NULL,
    discord_username TEXT,
    roles TEXT NOT NULL,
    statement TEXT NOT NULL,
    url TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (election_id, voter_id)
);

-- Ballots: one per voter per election
CREATE TABLE IF NOT EXISTS ballot (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (election_id, voter_id)
);

-- Per-role selections for a ballot; an absent role is an abstention
CREATE TABLE IF NOT EXISTS ballot_selection (
    election_id TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    role TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    PRIMARY KEY (election_id, voter_id, role),
    FOREIGN KEY (election_id, voter_id) REFERENCES ballot(election_id, voter_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_ballot_selection_role ON ballot_selection(election_id, role);
`
