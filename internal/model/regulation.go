package model

import "time"

// Regulation is one committed version of a regulatory text.
//
// (ID, Version) is unique in the store. Rows are immutable once committed:
// textual drift on re-import produces a new version, never an in-place edit.
type Regulation struct {
	ID          string    `json:"id"`
	Version     int64     `json:"version"`
	Country     string    `json:"country"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"body"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegulationDraft is a fetched, not-yet-committed regulation.
//
// Connectors produce drafts; only the store assigns versions and
// fingerprints. A draft has no side effect until ingested, so a failed
// commit after a successful fetch is safely retryable.
type RegulationDraft struct {
	ID          string    `json:"id"`
	Country     string    `json:"country"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"body"`
}
