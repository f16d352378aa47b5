// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - election: The election and its lifecycle phase
  - election_member: Eligible voters per election
  - nomination: One candidacy per voter per election
  - ballot: One ballot per voter per election
  - ballot_selection: Per-role selections belonging to a ballot

# Relationships

	election 1──* election_member
	election 1──* nomination
	election 1──* ballot
	ballot   1──* ballot_selection

All foreign keys use ON DELETE CASCADE.

# Portability

The DDL avoids database-specific defaults (no NOW()); the application
writes all timestamps. This keeps SQLite (development, tests) and
PostgreSQL (production) on the same schema text.
*/
package db
