package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/testutil"
)

// createTestStore creates a file-backed store in a temp dir with a
// deterministic clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.SetClock(testutil.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Second).Now)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDraft creates a draft with minimal required fields.
func createTestDraft(id, body string) model.RegulationDraft {
	return model.RegulationDraft{
		ID:          id,
		Country:     "EU",
		Source:      "EUR-Lex",
		Title:       "Test regulation " + id,
		PublishedAt: time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC),
		URL:         "https://eur-lex.europa.eu/",
		Body:        body,
	}
}

// createTestRequirements derives a requirement set the way the extractor
// would: deterministic IDs from (reg, version, position).
func createTestRequirements(regID string, version int64, clauses ...string) []model.RequirementRecord {
	recs := make([]model.RequirementRecord, len(clauses))
	for i, clause := range clauses {
		seq := i + 1
		recs[i] = model.RequirementRecord{
			ID:              model.RequirementID(regID, version, seq),
			RegulationID:    regID,
			Version:         version,
			Seq:             seq,
			TextRaw:         clause,
			TextEngineering: "The system shall ensure: " + clause,
		}
	}
	return recs
}
