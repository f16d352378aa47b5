// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/fairly-cast/auth"
	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/models"
	"github.com/danielhkuo/fairly-cast/notify"
)

// Notifier is the downstream consumer of election events. Satisfied by
// *notify.Dispatcher.
type Notifier interface {
	Dispatch(evt notify.Event)
	Discard()
}

var voterIDRegex = regexp.MustCompile(`^z[0-9]{7}$`)

// Manager owns the election singleton: the phase state machine, the
// nomination and ballot stores, and the eligible-member list.
//
// Every mutation runs under one mutex scoped to the election: acquire,
// validate phase, mutate, release - and only then emit events. Reads go
// straight to the database. The mutex never spans a transport call.
type Manager struct {
	db       *sql.DB
	cfg      cliparse.Config
	notifier Notifier

	mu sync.Mutex
}

func NewManager(db *sql.DB, cfg cliparse.Config, notifier Notifier) *Manager {
	return &Manager{db: db, cfg: cfg, notifier: notifier}
}

// Roles returns the configured contestable role set
func (m *Manager) Roles() []string {
	return m.cfg.Roles
}

func (m *Manager) roleConfigured(role string) bool {
	for _, r := range m.cfg.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentElection returns the running election, or nil if none exists.
// An election at END is finalised and no longer current.
func (m *Manager) CurrentElection(ctx context.Context) (*models.Election, error) {
	el, err := m.latestElection(ctx)
	if err != nil {
		return nil, err
	}
	if el == nil || el.Phase == models.PhaseEnd {
		return nil, nil
	}
	return el, nil
}

// latestElection returns the most recently created election row without
// filtering END, so the state machine can distinguish "terminal" from
// "nonexistent".
func (m *Manager) latestElection(ctx context.Context) (*models.Election, error) {
	var el models.Election
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, phase, phase_entered_at, created_at
		FROM election
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&el.ID, &el.Name, &el.Phase, &el.PhaseEnteredAt, &el.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}
	return &el, nil
}

// CreateElection starts a new election cycle in CLOSED. Admin only.
// Fails with ErrAlreadyRunning while a previous cycle has not reached
// END.
func (m *Manager) CreateElection(ctx context.Context, id auth.Identity, name string) (string, error) {
	if !id.IsAdmin {
		return "", ErrUnauthorized
	}
	if name == "" {
		return "", validationErr("name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.CurrentElection(ctx)
	if err != nil {
		return "", err
	}
	if current != nil {
		return "", ErrAlreadyRunning
	}

	electionID := uuid.NewString()
	now := time.Now().UTC()
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO election (id, name, phase, phase_entered_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, electionID, name, models.PhaseClosed, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert election: %w", err)
	}

	slog.Info("election created", "election_id", electionID, "name", name)
	return electionID, nil
}

// SetMembers replaces the eligible-voter list for the current election.
// Admin only. Input is deduplicated; every ID must match the voter ID
// format or the whole list is rejected.
func (m *Manager) SetMembers(ctx context.Context, id auth.Identity, voterIDs []string) error {
	if !id.IsAdmin {
		return ErrUnauthorized
	}

	seen := make(map[string]bool, len(voterIDs))
	deduped := make([]string, 0, len(voterIDs))
	for _, v := range voterIDs {
		if !voterIDRegex.MatchString(v) {
			return validationErr("invalid voter ID: " + v)
		}
		if !seen[v] {
			seen[v] = true
			deduped = append(deduped, v)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	el, err := m.CurrentElection(ctx)
	if err != nil {
		return err
	}
	if el == nil {
		return ErrNoElection
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM election_member WHERE election_id = $1
	`, el.ID); err != nil {
		return fmt.Errorf("failed to clear member list: %w", err)
	}

	for _, v := range deduped {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO election_member (election_id, voter_id)
			VALUES ($1, $2)
		`, el.ID, v); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit member list: %w", err)
	}

	slog.Info("member list replaced", "election_id", el.ID, "members", len(deduped))
	return nil
}

// isEligible reports whether voterID is on the current member list
func (m *Manager) isEligible(ctx context.Context, electionID, voterID string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM election_member
			WHERE election_id = $1 AND voter_id = $2
		)
	`, electionID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check eligibility: %w", err)
	}
	return exists, nil
}

// Advance moves the election to the next phase in the fixed order.
// Admin only. Fails with ErrInvalidTransition once the election has
// reached END.
func (m *Manager) Advance(ctx context.Context, id auth.Identity) (string, error) {
	if !id.IsAdmin {
		return "", ErrUnauthorized
	}

	electionID, next, err := func() (string, string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		el, err := m.latestElection(ctx)
		if err != nil {
			return "", "", err
		}
		if el == nil {
			return "", "", ErrNoElection
		}
		if el.Phase == models.PhaseEnd {
			return "", "", ErrInvalidTransition
		}

		next := models.PhaseOrder[models.PhaseIndex(el.Phase)+1]
		if err := m.setPhase(ctx, el.ID, next); err != nil {
			return "", "", err
		}
		return el.ID, next, nil
	}()
	if err != nil {
		return "", err
	}

	m.emitPhaseChanged(electionID, next)
	return next, nil
}

// Force jumps the election to a later phase. Admin only. Backwards
// jumps fail with ErrInvalidTransition; forcing the same phase is a
// no-op. Forcing END discards queued notifications and the dedup
// ledger - the cycle is aborted, nothing more should go out for it.
func (m *Manager) Force(ctx context.Context, id auth.Identity, phase string) error {
	if !id.IsAdmin {
		return ErrUnauthorized
	}

	target := models.PhaseIndex(phase)
	if target < 0 {
		return ErrInvalidTransition
	}

	electionID, changed, err := func() (string, bool, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		el, err := m.latestElection(ctx)
		if err != nil {
			return "", false, err
		}
		if el == nil {
			return "", false, ErrNoElection
		}

		current := models.PhaseIndex(el.Phase)
		if target == current {
			return el.ID, false, nil
		}
		if target < current {
			return "", false, ErrInvalidTransition
		}

		if err := m.setPhase(ctx, el.ID, phase); err != nil {
			return "", false, err
		}
		return el.ID, true, nil
	}()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if phase == models.PhaseEnd {
		m.notifier.Discard()
	}
	m.emitPhaseChanged(electionID, phase)
	return nil
}

// setPhase writes the new phase and its entry timestamp. Caller holds
// the manager lock.
func (m *Manager) setPhase(ctx context.Context, electionID, phase string) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE election
		SET phase = $1, phase_entered_at = $2
		WHERE id = $3
	`, phase, time.Now().UTC(), electionID)
	if err != nil {
		return fmt.Errorf("failed to set phase: %w", err)
	}
	return nil
}

func (m *Manager) emitPhaseChanged(electionID, phase string) {
	slog.Info("phase changed", "election_id", electionID, "phase", phase)
	m.notifier.Dispatch(notify.Event{
		ID:   uuid.NewString(),
		Kind: notify.KindPhaseChanged,
		Data: map[string]string{
			"election_id": electionID,
			"phase":       phase,
		},
	})
}

// assertPhase guards store mutations: the election must be in exactly
// the expected phase.
func assertPhase(el *models.Election, expected string) error {
	if el.Phase != expected {
		return ErrPhaseViolation
	}
	return nil
}

// assertPhaseAtLeast guards reads that become legal from a phase onward
func assertPhaseAtLeast(el *models.Election, earliest string) error {
	if models.PhaseIndex(el.Phase) < models.PhaseIndex(earliest) {
		return ErrPhaseViolation
	}
	return nil
}
