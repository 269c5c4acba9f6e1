package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// SaveRequirements persists the freshly derived requirement set for one
// (regulation, version) pair, idempotently.
//
// If the stored set is content-equal (same ordered text_raw and
// text_engineering values) the call is a no-op and the stored records are
// returned unchanged - no ledger entry. Otherwise the set is replaced
// atomically: an "extracted" entry is appended for a first derivation, a
// "re-extracted" entry when a differing prior set was replaced (CP-3: the
// append is the transaction's last statement).
func (s *Store) SaveRequirements(ctx context.Context, regID string, version int64, recs []model.RequirementRecord) ([]model.RequirementRecord, bool, error) {
	unlock := s.mu.lock(fmt.Sprintf("req:%s@%d", regID, version))
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("save requirements %s@%d: begin tx: %w", regID, version, err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := requirementsInTx(ctx, tx, regID, version)
	if err != nil {
		return nil, false, err
	}

	if len(existing) > 0 && sameRequirementContent(existing, recs) {
		return existing, false, nil
	}

	// An empty set leaves no rows behind, so "already extracted to zero
	// requirements" is only visible in the ledger. Without this check every
	// retry of a zero-clause version would append a duplicate entry.
	if len(existing) == 0 && len(recs) == 0 {
		extracted, err := hasExtractionEntryTx(ctx, tx, regID, version)
		if err != nil {
			return nil, false, err
		}
		if extracted {
			return existing, false, nil
		}
	}

	if len(existing) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM requirements WHERE reg_id = ? AND version = ?`, regID, version); err != nil {
			return nil, false, fmt.Errorf("save requirements %s@%d: clear prior set: %w", regID, version, err)
		}
	}

	now := s.now()
	stored := make([]model.RequirementRecord, len(recs))
	for i, rec := range recs {
		rec.CreatedAt = now
		stored[i] = rec
		_, err := tx.ExecContext(ctx, `
			INSERT INTO requirements (id, reg_id, version, seq, text_raw, text_engineering, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.RegulationID, rec.Version, rec.Seq, rec.TextRaw, rec.TextEngineering, now.Format(timeFormat))
		if err != nil {
			return nil, false, fmt.Errorf("save requirements %s@%d: insert %s: %w", regID, version, rec.ID, err)
		}
	}

	changeType := model.ChangeExtracted
	summary := fmt.Sprintf("derived %d requirements", len(recs))
	if len(existing) > 0 {
		changeType = model.ChangeReextracted
		summary = fmt.Sprintf("requirement set changed: %d -> %d records", len(existing), len(recs))
	}
	if err := appendLedgerTx(ctx, tx, now, regID, version, changeType, summary); err != nil {
		return nil, false, fmt.Errorf("save requirements %s@%d: %w", regID, version, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("save requirements %s@%d: commit: %w", regID, version, err)
	}

	return stored, true, nil
}

// GetRequirements returns the stored requirement set for one
// (regulation, version) pair, ordered by seq. Empty slice when none exist.
func (s *Store) GetRequirements(ctx context.Context, regID string, version int64) ([]model.RequirementRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reg_id, version, seq, text_raw, text_engineering, created_at
		FROM requirements
		WHERE reg_id = ? AND version = ?
		ORDER BY seq ASC
	`, regID, version)
	if err != nil {
		return nil, fmt.Errorf("query requirements %s@%d: %w", regID, version, err)
	}
	defer rows.Close()
	return collectRequirements(rows)
}

// GetRequirement returns one requirement record by its derived ID.
func (s *Store) GetRequirement(ctx context.Context, id string) (model.RequirementRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reg_id, version, seq, text_raw, text_engineering, created_at
		FROM requirements
		WHERE id = ?
	`, id)
	rec, err := scanRequirement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RequirementRecord{}, fault.New(fault.KindNotFound, id, "requirement not found")
	}
	if err != nil {
		return model.RequirementRecord{}, fmt.Errorf("get requirement %s: %w", id, err)
	}
	return rec, nil
}

// hasExtractionEntryTx reports whether an extraction was ever recorded for
// this (regulation, version), empty results included.
func hasExtractionEntryTx(ctx context.Context, tx *sql.Tx, regID string, version int64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ledger
		WHERE subject_id = ? AND subject_version = ? AND change_type IN (?, ?)
	`, regID, version, string(model.ChangeExtracted), string(model.ChangeReextracted)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query extraction history %s@%d: %w", regID, version, err)
	}
	return n > 0, nil
}

func requirementsInTx(ctx context.Context, tx *sql.Tx, regID string, version int64) ([]model.RequirementRecord, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, reg_id, version, seq, text_raw, text_engineering, created_at
		FROM requirements
		WHERE reg_id = ? AND version = ?
		ORDER BY seq ASC
	`, regID, version)
	if err != nil {
		return nil, fmt.Errorf("query requirements %s@%d: %w", regID, version, err)
	}
	defer rows.Close()
	return collectRequirements(rows)
}

func collectRequirements(rows *sql.Rows) ([]model.RequirementRecord, error) {
	recs := []model.RequirementRecord{}
	for rows.Next() {
		rec, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}
	return recs, nil
}

func scanRequirement(row rowScanner) (model.RequirementRecord, error) {
	var rec model.RequirementRecord
	var createdAt string
	err := row.Scan(&rec.ID, &rec.RegulationID, &rec.Version, &rec.Seq,
		&rec.TextRaw, &rec.TextEngineering, &createdAt)
	if err != nil {
		return model.RequirementRecord{}, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.RequirementRecord{}, fmt.Errorf("requirement %s: bad created_at: %w", rec.ID, err)
	}
	return rec, nil
}

// sameRequirementContent reports whether two ordered requirement sets carry
// identical clause content. IDs and timestamps are excluded: content equality
// is what the idempotence contract promises.
func sameRequirementContent(a, b []model.RequirementRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].TextRaw != b[i].TextRaw || a[i].TextEngineering != b[i].TextEngineering {
			return false
		}
	}
	return true
}
