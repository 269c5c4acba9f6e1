package store

import (
	"context"
	"testing"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

func setupRegulation(t *testing.T, s *Store, id, body string) model.Regulation {
	t.Helper()
	reg, _, err := s.IngestRegulation(context.Background(), createTestDraft(id, body))
	if err != nil {
		t.Fatalf("IngestRegulation() failed: %v", err)
	}
	return reg
}

func TestSaveRequirements_FirstExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	setupRegulation(t, s, "EU-BATT-2023", "Batteries must be traceable by QR code.")

	recs := createTestRequirements("EU-BATT-2023", 1, "Batteries must be traceable by QR code")
	stored, changed, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, recs)
	if err != nil {
		t.Fatalf("SaveRequirements() failed: %v", err)
	}
	if !changed {
		t.Fatal("first extraction: changed = false, want true")
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d records, want 1", len(stored))
	}

	entries, err := s.QueryLedger(ctx, LedgerFilter{SubjectID: "EU-BATT-2023"})
	if err != nil {
		t.Fatalf("QueryLedger() failed: %v", err)
	}
	// imported + extracted
	if len(entries) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(entries))
	}
	if entries[1].ChangeType != model.ChangeExtracted {
		t.Fatalf("change type = %q, want %q", entries[1].ChangeType, model.ChangeExtracted)
	}
}

func TestSaveRequirements_IdenticalSetIsNoOp(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	setupRegulation(t, s, "EU-BATT-2023", "Batteries must be traceable by QR code.")

	recs := createTestRequirements("EU-BATT-2023", 1, "Batteries must be traceable by QR code")
	if _, _, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, recs); err != nil {
		t.Fatalf("first SaveRequirements() failed: %v", err)
	}

	stored, changed, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, recs)
	if err != nil {
		t.Fatalf("second SaveRequirements() failed: %v", err)
	}
	if changed {
		t.Fatal("identical re-save: changed = true, want false")
	}
	if len(stored) != 1 || stored[0].TextRaw != recs[0].TextRaw {
		t.Fatalf("re-save returned unexpected records: %+v", stored)
	}

	entries, err := s.QueryLedger(ctx, LedgerFilter{SubjectID: "EU-BATT-2023"})
	if err != nil {
		t.Fatalf("QueryLedger() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ledger entries after no-op re-save = %d, want 2", len(entries))
	}
}

func TestSaveRequirements_RepeatedEmptySetRecordsOneEntry(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	setupRegulation(t, s, "EU-GLOSS-2023", "'Battery' means a device storing energy. This regulation applies from 2024.")

	// A zero-requirement extraction is a valid result and must be ledgered
	// exactly once, no matter how often it is re-run.
	for i := 0; i < 3; i++ {
		stored, changed, err := s.SaveRequirements(ctx, "EU-GLOSS-2023", 1, nil)
		if err != nil {
			t.Fatalf("SaveRequirements() run %d failed: %v", i+1, err)
		}
		if len(stored) != 0 {
			t.Fatalf("run %d stored %d records, want 0", i+1, len(stored))
		}
		if want := i == 0; changed != want {
			t.Fatalf("run %d: changed = %v, want %v", i+1, changed, want)
		}
	}

	entries, err := s.QueryLedger(ctx, LedgerFilter{SubjectID: "EU-GLOSS-2023"})
	if err != nil {
		t.Fatalf("QueryLedger() failed: %v", err)
	}
	// imported + one extracted, never more
	if len(entries) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(entries))
	}
	extractions := 0
	for _, e := range entries {
		if e.ChangeType == model.ChangeExtracted || e.ChangeType == model.ChangeReextracted {
			extractions++
		}
	}
	if extractions != 1 {
		t.Fatalf("extraction entries = %d, want 1", extractions)
	}
}

func TestSaveRequirements_ChangedSetIsReplaced(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	setupRegulation(t, s, "EU-BATT-2023", "Batteries must be traceable by QR code.")

	first := createTestRequirements("EU-BATT-2023", 1, "Batteries must be traceable by QR code")
	if _, _, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, first); err != nil {
		t.Fatalf("first SaveRequirements() failed: %v", err)
	}

	second := createTestRequirements("EU-BATT-2023", 1,
		"Batteries must be traceable by QR code",
		"Carbon footprint must be disclosed")
	stored, changed, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, second)
	if err != nil {
		t.Fatalf("second SaveRequirements() failed: %v", err)
	}
	if !changed {
		t.Fatal("differing re-save: changed = false, want true")
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d records, want 2", len(stored))
	}

	got, err := s.GetRequirements(ctx, "EU-BATT-2023", 1)
	if err != nil {
		t.Fatalf("GetRequirements() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("persisted %d records, want 2 (old set fully replaced)", len(got))
	}

	entries, err := s.QueryLedger(ctx, LedgerFilter{SubjectID: "EU-BATT-2023"})
	if err != nil {
		t.Fatalf("QueryLedger() failed: %v", err)
	}
	last := entries[len(entries)-1]
	if last.ChangeType != model.ChangeReextracted {
		t.Fatalf("last change type = %q, want %q", last.ChangeType, model.ChangeReextracted)
	}
}

func TestGetRequirement_ByID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	setupRegulation(t, s, "EU-BATT-2023", "Batteries must be traceable by QR code.")

	recs := createTestRequirements("EU-BATT-2023", 1, "Batteries must be traceable by QR code")
	if _, _, err := s.SaveRequirements(ctx, "EU-BATT-2023", 1, recs); err != nil {
		t.Fatalf("SaveRequirements() failed: %v", err)
	}

	rec, err := s.GetRequirement(ctx, "REQ-EU-BATT-2023-v1-001")
	if err != nil {
		t.Fatalf("GetRequirement() failed: %v", err)
	}
	if rec.RegulationID != "EU-BATT-2023" || rec.Version != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	_, err = s.GetRequirement(ctx, "REQ-NOPE-v1-001")
	if !fault.IsNotFound(err) {
		t.Fatalf("GetRequirement(missing) error = %v, want NOT_FOUND", err)
	}
}
