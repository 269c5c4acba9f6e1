package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// LedgerFilter narrows a ledger query. Zero values mean "no constraint".
type LedgerFilter struct {
	SubjectID string
	Since     time.Time
	Until     time.Time
}

// appendLedgerTx writes one audit record inside an open transaction.
// It is the only way ledger rows come into existence; no exported append
// exists, so external callers cannot write audit entries directly.
func appendLedgerTx(ctx context.Context, tx *sql.Tx, ts time.Time, subjectID string, subjectVersion int64, changeType model.ChangeType, summary string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger (ts, subject_id, subject_version, change_type, diff_summary)
		VALUES (?, ?, ?, ?, ?)
	`, ts.Format(timeFormat), subjectID, subjectVersion, string(changeType), summary)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// QueryLedger returns audit records matching the filter, ordered by
// (ts, seq) ascending (CP-4). Repeated calls with no intervening writes
// yield identical results. Returns an empty slice, never nil.
func (s *Store) QueryLedger(ctx context.Context, filter LedgerFilter) ([]model.HistoryEntry, error) {
	var conds []string
	var args []any

	if filter.SubjectID != "" {
		conds = append(conds, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, filter.Since.UTC().Format(timeFormat))
	}
	if !filter.Until.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, filter.Until.UTC().Format(timeFormat))
	}

	query := `SELECT seq, ts, subject_id, subject_version, change_type, diff_summary FROM ledger`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		var ts, changeType string
		if err := rows.Scan(&e.Seq, &ts, &e.SubjectID, &e.SubjectVersion, &changeType, &e.DiffSummary); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("ledger entry %d: bad ts: %w", e.Seq, err)
		}
		e.ChangeType = model.ChangeType(changeType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}
	return entries, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}
