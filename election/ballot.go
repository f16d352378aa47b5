// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
)

// SubmitBallot creates or replaces the caller's ballot. Only legal
// while voting is open; a voter can amend their ballot until the phase
// closes, after which it is immutable. Selections must reference
// candidates actually contesting the role; omitted roles are
// abstentions.
func (m *Manager) SubmitBallot(ctx context.Context, id auth.Identity, req models.SubmitBallotRequest) (*models.Ballot, error) {
	ballot, err := func() (*models.Ballot, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		el, err := m.CurrentElection(ctx)
		if err != nil {
			return nil, err
		}
		if el == nil {
			return nil, ErrNoElection
		}
		if err := assertPhase(el, models.PhaseVotingOpen); err != nil {
			return nil, err
		}

		eligible, err := m.isEligible(ctx, el.ID, id.VoterID)
		if err != nil {
			return nil, err
		}
		if !eligible {
			return nil, ErrUnauthorized
		}

		for role, candidateID := range req.Selections {
			if !m.roleConfigured(role) {
				return nil, validationErr("unknown role: " + role)
			}
			nom, err := m.getNomination(ctx, el.ID, candidateID)
			if err != nil {
				return nil, err
			}
			if nom == nil || !nom.IsRunningFor(role) {
				return nil, validationErr("candidate is not running for " + role)
			}
		}

		return m.upsertBallot(ctx, el.ID, id.VoterID, req.Selections)
	}()
	if err != nil {
		return nil, err
	}

	m.notifier.Dispatch(notify.Event{
		ID:        uuid.NewString(),
		Kind:      notify.KindBallotConfirmed,
		Recipient: m.voterEmail(id.VoterID),
	})
	return ballot, nil
}

func (m *Manager) voterEmail(voterID string) string {
	return voterID + "@" + m.cfg.VoterEmailDomain
}

// upsertBallot replaces the ballot and its selections in one
// transaction. Caller holds the manager lock.
func (m *Manager) upsertBallot(ctx context.Context, electionID, voterID string, selections map[string]string) (*models.Ballot, error) {
	now := time.Now().UTC()
	castAt := now

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT cast_at FROM ballot
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot (election_id, voter_id, cast_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`, electionID, voterID, now, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ballot: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	default:
		castAt = existing
		_, err = tx.ExecContext(ctx, `
			UPDATE ballot SET updated_at = $1
			WHERE election_id = $2 AND voter_id = $3
		`, now, electionID, voterID)
		if err != nil {
			return nil, fmt.Errorf("failed to update ballot: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM ballot_selection
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID); err != nil {
		return nil, fmt.Errorf("failed to clear selections: %w", err)
	}

	for role, candidateID := range selections {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ballot_selection (election_id, voter_id, role, candidate_id)
			VALUES ($1, $2, $3, $4)
		`, electionID, voterID, role, candidateID); err != nil {
			return nil, fmt.Errorf("failed to insert selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ballot: %w", err)
	}

	slog.Info("ballot submitted", "election_id", electionID, "voter_id", voterID)

	return &models.Ballot{
		ElectionID: electionID,
		VoterID:    voterID,
		Selections: selections,
		CastAt:     castAt,
		UpdatedAt:  now,
	}, nil
}

// GetBallot returns a voter's ballot in the current election, or nil
// without error when they have not voted.
func (m *Manager) GetBallot(ctx context.Context, voterID string) (*models.Ballot, error) {
	el, err := m.CurrentElection(ctx)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}

	var ballot models.Ballot
	err = m.db.QueryRowContext(ctx, `
		SELECT election_id, voter_id, cast_at, updated_at
		FROM ballot
		WHERE election_id = $1 AND voter_id = $2
	`, el.ID, voterID).Scan(&ballot.ElectionID, &ballot.VoterID, &ballot.CastAt, &ballot.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT role, candidate_id FROM ballot_selection
		WHERE election_id = $1 AND voter_id = $2
	`, el.ID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	ballot.Selections = make(map[string]string)
	for rows.Next() {
		var role, candidateID string
		if err := rows.Scan(&role, &candidateID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		ballot.Selections[role] = candidateID
	}
	return &ballot, rows.Err()
}

// BallotPaper returns the candidates per role plus whether the caller
// has already voted. Available once the candidate field is settled
// (NOMINATIONS_CLOSED onward).
func (m *Manager) BallotPaper(ctx context.Context, id auth.Identity) (*models.BallotPaper, error) {
	el, err := m.CurrentElection(ctx)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, ErrNoElection
	}
	if err := assertPhaseAtLeast(el, models.PhaseNominationsClosed); err != nil {
		return nil, err
	}

	nominations, err := m.electionNominations(ctx, el.ID)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string][]models.Nomination)
	for _, nom := range nominations {
		for _, role := range nom.Roles {
			candidates[role] = append(candidates[role], nom)
		}
	}

	ballot, err := m.GetBallot(ctx, id.VoterID)
	if err != nil {
		return nil, err
	}

	return &models.BallotPaper{
		ElectionID: el.ID,
		Candidates: candidates,
		HasVoted:   ballot != nil,
	}, nil
}

// Results returns the aggregate per-role tallies. Public from RESULTS;
// admins may preview from VOTING_CLOSED. Individual ballots are never
// exposed.
func (m *Manager) Results(ctx context.Context, id auth.Identity) (*models.ResultsResponse, error) {
	el, err := m.CurrentElection(ctx)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, ErrNoElection
	}

	earliest := models.PhaseResults
	if id.IsAdmin {
		earliest = models.PhaseVotingClosed
	}
	if err := assertPhaseAtLeast(el, earliest); err != nil {
		return nil, err
	}

	var totalBallots int
	err = m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, el.ID).Scan(&totalBallots)
	if err != nil {
		return nil, fmt.Errorf("failed to count ballots: %w", err)
	}

	out := &models.ResultsResponse{ElectionID: el.ID}
	for _, role := range m.cfg.Roles {
		rows, err := m.db.QueryContext(ctx, `
			SELECT candidate_id, COUNT(*) FROM ballot_selection
			WHERE election_id = $1 AND role = $2
			GROUP BY candidate_id
		`, el.ID, role)
		if err != nil {
			return nil, fmt.Errorf("failed to tally role %s: %w", role, err)
		}

		result := models.RoleResult{Role: role, Tally: make(map[string]int)}
		for rows.Next() {
			var candidateID string
			var votes int
			if err := rows.Scan(&candidateID, &votes); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan tally: %w", err)
			}
			result.Tally[candidateID] = votes
			result.TotalVotes += votes
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		result.Abstained = totalBallots - result.TotalVotes
		out.Results = append(out.Results, result)
	}
	return out, nil
}
