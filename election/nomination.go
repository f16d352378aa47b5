// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
)

const (
	maxNameLen      = 100
	maxDiscordLen   = 32
	maxStatementLen = 2000
)

// SubmitNomination creates or replaces the caller's nomination. Only
// legal while nominations are open; submission is idempotent per voter,
// last write wins. Emits a confirmation event on success.
func (m *Manager) SubmitNomination(ctx context.Context, id auth.Identity, req models.SubmitNominationRequest) (*models.Nomination, error) {
	if err := m.validateNomination(req); err != nil {
		return nil, err
	}

	nom, err := func() (*models.Nomination, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		el, err := m.CurrentElection(ctx)
		if err != nil {
			return nil, err
		}
		if el == nil {
			return nil, ErrNoElection
		}
		if err := assertPhase(el, models.PhaseNominationsOpen); err != nil {
			return nil, err
		}

		eligible, err := m.isEligible(ctx, el.ID, id.VoterID)
		if err != nil {
			return nil, err
		}
		if !eligible {
			return nil, ErrUnauthorized
		}

		return m.upsertNomination(ctx, el.ID, id.VoterID, req)
	}()
	if err != nil {
		return nil, err
	}

	m.notifier.Dispatch(notify.Event{
		ID:        uuid.NewString(),
		Kind:      notify.KindNominationConfirmed,
		Recipient: nom.ContactEmail,
		Data: map[string]string{
			"candidate_name": nom.CandidateName,
			"roles":          strings.Join(nom.Roles, ", "),
		},
	})
	return nom, nil
}

func (m *Manager) validateNomination(req models.SubmitNominationRequest) error {
	if req.CandidateName == "" {
		return validationErr("candidate_name is required")
	}
	if len(req.CandidateName) > maxNameLen {
		return validationErr("candidate_name too long")
	}
	if req.ContactEmail == "" || !strings.Contains(req.ContactEmail, "@") {
		return validationErr("contact_email must be a valid address")
	}
	if req.Statement == "" {
		return validationErr("statement is required")
	}
	if len(req.Statement) > maxStatementLen {
		return validationErr("statement too long")
	}
	if len(req.DiscordUsername) > maxDiscordLen {
		return validationErr("discord_username too long")
	}

	if len(req.Roles) == 0 {
		return validationErr("roles must not be empty")
	}
	seen := make(map[string]bool, len(req.Roles))
	for _, role := range req.Roles {
		if !m.roleConfigured(role) {
			return validationErr("unknown role: " + role)
		}
		if seen[role] {
			return validationErr("duplicate role: " + role)
		}
		seen[role] = true
	}

	if req.URL != nil {
		parsed, err := url.ParseRequestURI(*req.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return validationErr("url must be a valid http or https URL")
		}
	}
	return nil
}

// upsertNomination writes the nomination, preserving created_at when
// the voter already has one. Caller holds the manager lock.
func (m *Manager) upsertNomination(ctx context.Context, electionID, voterID string, req models.SubmitNominationRequest) (*models.Nomination, error) {
	rolesJSON, err := json.Marshal(req.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode roles: %w", err)
	}

	now := time.Now().UTC()
	createdAt := now

	var existing time.Time
	err = m.db.QueryRowContext(ctx, `
		SELECT created_at FROM nomination
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err = m.db.ExecContext(ctx, `
			INSERT INTO nomination (election_id, voter_id, candidate_name, contact_email,
				discord_username, roles, statement, url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, electionID, voterID, req.CandidateName, req.ContactEmail,
			req.DiscordUsername, string(rolesJSON), req.Statement, req.URL, now, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert nomination: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query nomination: %w", err)
	default:
		createdAt = existing
		_, err = m.db.ExecContext(ctx, `
			UPDATE nomination
			SET candidate_name = $1, contact_email = $2, discord_username = $3,
				roles = $4, statement = $5, url = $6, updated_at = $7
			WHERE election_id = $8 AND voter_id = $9
		`, req.CandidateName, req.ContactEmail, req.DiscordUsername,
			string(rolesJSON), req.Statement, req.URL, now, electionID, voterID)
		if err != nil {
			return nil, fmt.Errorf("failed to update nomination: %w", err)
		}
	}

	slog.Info("nomination submitted", "election_id", electionID, "voter_id", voterID, "roles", req.Roles)

	return &models.Nomination{
		ElectionID:      electionID,
		VoterID:         voterID,
		CandidateName:   req.CandidateName,
		ContactEmail:    req.ContactEmail,
		DiscordUsername: req.DiscordUsername,
		Roles:           req.Roles,
		Statement:       req.Statement,
		URL:             req.URL,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}, nil
}

// GetNomination returns a voter's nomination in the current election,
// or nil without error when absent - browsing without a nomination is a
// normal state, not a failure.
func (m *Manager) GetNomination(ctx context.Context, voterID string) (*models.Nomination, error) {
	el, err := m.CurrentElection(ctx)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}

	return m.getNomination(ctx, el.ID, voterID)
}

func (m *Manager) getNomination(ctx context.Context, electionID, voterID string) (*models.Nomination, error) {
	var nom models.Nomination
	var rolesJSON string
	err := m.db.QueryRowContext(ctx, `
		SELECT election_id, voter_id, candidate_name, contact_email,
			discord_username, roles, statement, url, created_at, updated_at
		FROM nomination
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(
		&nom.ElectionID, &nom.VoterID, &nom.CandidateName, &nom.ContactEmail,
		&nom.DiscordUsername, &rolesJSON, &nom.Statement, &nom.URL,
		&nom.CreatedAt, &nom.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query nomination: %w", err)
	}

	if err := json.Unmarshal([]byte(rolesJSON), &nom.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	return &nom, nil
}

// DeleteNomination withdraws the caller's nomination. Only legal while
// nominations are open. Does nothing if no nomination exists.
func (m *Manager) DeleteNomination(ctx context.Context, id auth.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, err := m.CurrentElection(ctx)
	if err != nil {
		return err
	}
	if el == nil {
		return ErrNoElection
	}
	if err := assertPhase(el, models.PhaseNominationsOpen); err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		DELETE FROM nomination WHERE election_id = $1 AND voter_id = $2
	`, el.ID, id.VoterID)
	if err != nil {
		return fmt.Errorf("failed to delete nomination: %w", err)
	}
	return nil
}

// ListNominationsForRole returns every nomination contesting a role.
// Defined from NOMINATIONS_CLOSED onward; before that the field is
// still changing.
func (m *Manager) ListNominationsForRole(ctx context.Context, role string) ([]models.Nomination, error) {
	if !m.roleConfigured(role) {
		return nil, validationErr("unknown role: " + role)
	}

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

	all, err := m.electionNominations(ctx, el.ID)
	if err != nil {
		return nil, err
	}

	var out []models.Nomination
	for _, nom := range all {
		if nom.IsRunningFor(role) {
			out = append(out, nom)
		}
	}
	return out, nil
}

func (m *Manager) electionNominations(ctx context.Context, electionID string) ([]models.Nomination, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT election_id, voter_id, candidate_name, contact_email,
			discord_username, roles, statement, url, created_at, updated_at
		FROM nomination
		WHERE election_id = $1
		ORDER BY created_at
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nominations: %w", err)
	}
	defer rows.Close()

	var out []models.Nomination
	for rows.Next() {
		var nom models.Nomination
		var rolesJSON string
		if err := rows.Scan(
			&nom.ElectionID, &nom.VoterID, &nom.CandidateName, &nom.ContactEmail,
			&nom.DiscordUsername, &rolesJSON, &nom.Statement, &nom.URL,
			&nom.CreatedAt, &nom.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan nomination: %w", err)
		}
		if err := json.Unmarshal([]byte(rolesJSON), &nom.Roles); err != nil {
			return nil, fmt.Errorf("failed to decode roles: %w", err)
		}
		out = append(out, nom)
	}
	return out, rows.Err()
}
