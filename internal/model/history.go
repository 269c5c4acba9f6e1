package model

import "time"

// ChangeType classifies a ledger entry.
type ChangeType string

const (
	// ChangeImported records the first committed version of a regulation.
	ChangeImported ChangeType = "imported"

	// ChangeReversioned records a new version created by textual drift.
	ChangeReversioned ChangeType = "re-versioned"

	// ChangeExtracted records the first requirement set for a version.
	ChangeExtracted ChangeType = "extracted"

	// ChangeReextracted records a replacement requirement set whose content
	// differs from the prior one. An unchanged re-extraction writes nothing.
	ChangeReextracted ChangeType = "re-extracted"
)

// HistoryEntry is one immutable audit record in the traceability ledger.
//
// Seq is assigned at append time and breaks timestamp ties; ordering is
// always (Timestamp, Seq) ascending. Entries are write-once: no update or
// delete exists anywhere in the store's surface.
type HistoryEntry struct {
	Seq            int64      `json:"seq"`
	Timestamp      time.Time  `json:"timestamp"`
	SubjectID      string     `json:"subject_id"`
	SubjectVersion int64      `json:"subject_version"`
	ChangeType     ChangeType `json:"change_type"`
	DiffSummary    string     `json:"diff_summary"`
}
