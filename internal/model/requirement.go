package model

import (
	"fmt"
	"time"
)

// RequirementRecord is an engineering-actionable statement derived from one
// committed regulation version.
//
// Records are superseded, not mutated: re-extracting a re-versioned
// regulation writes a fresh set for the new version and leaves prior
// versions' records untouched.
type RequirementRecord struct {
	ID              string    `json:"id"`
	RegulationID    string    `json:"regulation_id"`
	Version         int64     `json:"version"`
	Seq             int       `json:"seq"`
	TextRaw         string    `json:"text_raw"`
	TextEngineering string    `json:"text_engineering"`
	CreatedAt       time.Time `json:"created_at"`
}

// RequirementID derives the stable record ID for a clause position within a
// regulation version. The derivation is pure so repeated extraction of the
// same text yields byte-identical IDs.
func RequirementID(regulationID string, version int64, seq int) string {
	return fmt.Sprintf("REQ-%s-v%d-%03d", regulationID, version, seq)
}
