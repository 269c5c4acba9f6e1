package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// IngestRegulation commits a draft, versioning by content fingerprint.
//
// First import of an identifier creates version 1 and an "imported" ledger
// entry. A re-import with an unchanged fingerprint is a no-op and returns
// (latest, false, nil). A changed fingerprint creates version head+1 and a
// "re-versioned" ledger entry with a diff summary.
//
// The version insert, head-pointer update, and ledger append happen in one
// transaction; the ledger append is the last statement (CP-3), so a failed
// append rolls the version back. Concurrent imports of the same identifier
// are serialized in-process; a lost cross-process race against
// UNIQUE(reg_id, version) is retried once and then surfaced as CONFLICT.
func (s *Store) IngestRegulation(ctx context.Context, draft model.RegulationDraft) (model.Regulation, bool, error) {
	if draft.ID == "" {
		return model.Regulation{}, false, fault.New(fault.KindInvalid, "", "draft has no identifier")
	}
	if draft.Body == "" {
		return model.Regulation{}, false, fault.New(fault.KindInvalid, draft.ID, "draft has no text body")
	}

	unlock := s.mu.lock("reg:" + draft.ID)
	defer unlock()

	reg, isNew, err := s.ingestTx(ctx, draft)
	if isConstraintViolation(err) {
		// Lost a duplicate-version race to another process: the head has
		// moved, so re-run against the winner's state.
		reg, isNew, err = s.ingestTx(ctx, draft)
		if isConstraintViolation(err) {
			return model.Regulation{}, false, fault.Wrap(fault.KindConflict, draft.ID,
				"concurrent import created a conflicting version", err)
		}
	}
	return reg, isNew, err
}

func (s *Store) ingestTx(ctx context.Context, draft model.RegulationDraft) (model.Regulation, bool, error) {
	fp := model.Fingerprint(draft.Body)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Regulation{}, false, fmt.Errorf("ingest %s: begin tx: %w", draft.ID, err)
	}
	defer tx.Rollback() // No-op if committed

	latest, err := latestInTx(ctx, tx, draft.ID)
	switch {
	case err == nil && latest.Fingerprint == fp:
		// Unchanged text: idempotent no-op, no ledger entry.
		return latest, false, nil
	case err != nil && !fault.IsNotFound(err):
		return model.Regulation{}, false, err
	}

	version := int64(1)
	changeType := model.ChangeImported
	summary := fmt.Sprintf("imported from %s (%d chars)", draft.Source, len(draft.Body))
	if err == nil {
		version = latest.Version + 1
		changeType = model.ChangeReversioned
		summary = summarizeDrift(latest.Body, draft.Body)
	}

	now := s.now()
	reg := model.Regulation{
		ID:          draft.ID,
		Version:     version,
		Country:     draft.Country,
		Source:      draft.Source,
		Title:       draft.Title,
		PublishedAt: draft.PublishedAt,
		URL:         draft.URL,
		Body:        draft.Body,
		Fingerprint: fp,
		CreatedAt:   now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO regulations
		(reg_id, version, country, source, title, published_at, url, body, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reg.ID, reg.Version, reg.Country, reg.Source, reg.Title,
		reg.PublishedAt.UTC().Format(timeFormat), reg.URL, reg.Body, reg.Fingerprint,
		now.Format(timeFormat),
	)
	if err != nil {
		return model.Regulation{}, false, fmt.Errorf("ingest %s: insert version %d: %w", reg.ID, reg.Version, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO regulation_heads (reg_id, version) VALUES (?, ?)
		ON CONFLICT(reg_id) DO UPDATE SET version = excluded.version
	`, reg.ID, reg.Version)
	if err != nil {
		return model.Regulation{}, false, fmt.Errorf("ingest %s: update head: %w", reg.ID, err)
	}

	if err := appendLedgerTx(ctx, tx, now, reg.ID, reg.Version, changeType, summary); err != nil {
		return model.Regulation{}, false, fmt.Errorf("ingest %s: %w", reg.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Regulation{}, false, fmt.Errorf("ingest %s: commit: %w", reg.ID, err)
	}

	return reg, true, nil
}

// GetRegulation returns the latest version of a regulation.
func (s *Store) GetRegulation(ctx context.Context, id string) (model.Regulation, error) {
	return s.scanOneRegulation(ctx, `
		SELECT r.reg_id, r.version, r.country, r.source, r.title, r.published_at,
		       r.url, r.body, r.fingerprint, r.created_at
		FROM regulations r
		JOIN regulation_heads h ON r.reg_id = h.reg_id AND r.version = h.version
		WHERE r.reg_id = ?
	`, id, id)
}

// GetRegulationVersion returns one committed version of a regulation.
func (s *Store) GetRegulationVersion(ctx context.Context, id string, version int64) (model.Regulation, error) {
	return s.scanOneRegulation(ctx, `
		SELECT reg_id, version, country, source, title, published_at,
		       url, body, fingerprint, created_at
		FROM regulations
		WHERE reg_id = ? AND version = ?
	`, id, id, version)
}

// ListRegulations returns the latest version of every regulation, ordered by
// publication date then identifier (CP-4: stable across repeated calls).
func (s *Store) ListRegulations(ctx context.Context) ([]model.Regulation, error) {
	return s.scanRegulations(ctx, `
		SELECT r.reg_id, r.version, r.country, r.source, r.title, r.published_at,
		       r.url, r.body, r.fingerprint, r.created_at
		FROM regulations r
		JOIN regulation_heads h ON r.reg_id = h.reg_id AND r.version = h.version
		ORDER BY r.published_at ASC, r.reg_id ASC
	`)
}

// ListRegulationVersions returns the full version lineage of one identifier,
// oldest first. Returns NOT_FOUND for an unknown identifier.
func (s *Store) ListRegulationVersions(ctx context.Context, id string) ([]model.Regulation, error) {
	regs, err := s.scanRegulations(ctx, `
		SELECT reg_id, version, country, source, title, published_at,
		       url, body, fingerprint, created_at
		FROM regulations
		WHERE reg_id = ?
		ORDER BY version ASC
	`, id)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, fault.New(fault.KindNotFound, id, "regulation not found")
	}
	return regs, nil
}

func (s *Store) scanOneRegulation(ctx context.Context, query, subject string, args ...any) (model.Regulation, error) {
	row := s.db.QueryRowContext(ctx, query, args...)
	reg, err := scanRegulation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Regulation{}, fault.New(fault.KindNotFound, subject, "regulation not found")
	}
	if err != nil {
		return model.Regulation{}, fmt.Errorf("get regulation %s: %w", subject, err)
	}
	return reg, nil
}

func (s *Store) scanRegulations(ctx context.Context, query string, args ...any) ([]model.Regulation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query regulations: %w", err)
	}
	defer rows.Close()

	regs := []model.Regulation{}
	for rows.Next() {
		reg, err := scanRegulation(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulations: %w", err)
	}
	return regs, nil
}

// latestInTx reads the head version of an identifier inside a transaction.
func latestInTx(ctx context.Context, tx *sql.Tx, id string) (model.Regulation, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT r.reg_id, r.version, r.country, r.source, r.title, r.published_at,
		       r.url, r.body, r.fingerprint, r.created_at
		FROM regulations r
		JOIN regulation_heads h ON r.reg_id = h.reg_id AND r.version = h.version
		WHERE r.reg_id = ?
	`, id)
	reg, err := scanRegulation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Regulation{}, fault.New(fault.KindNotFound, id, "regulation not found")
	}
	if err != nil {
		return model.Regulation{}, fmt.Errorf("read head of %s: %w", id, err)
	}
	return reg, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegulation(row rowScanner) (model.Regulation, error) {
	var reg model.Regulation
	var publishedAt, createdAt string
	err := row.Scan(&reg.ID, &reg.Version, &reg.Country, &reg.Source, &reg.Title,
		&publishedAt, &reg.URL, &reg.Body, &reg.Fingerprint, &createdAt)
	if err != nil {
		return model.Regulation{}, err
	}
	if reg.PublishedAt, err = parseTime(publishedAt); err != nil {
		return model.Regulation{}, fmt.Errorf("regulation %s: bad published_at: %w", reg.ID, err)
	}
	if reg.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Regulation{}, fmt.Errorf("regulation %s: bad created_at: %w", reg.ID, err)
	}
	return reg, nil
}

func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
