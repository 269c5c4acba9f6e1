// Package model defines the core entities of the traceability engine:
// versioned regulations, derived requirement records, impact assessments,
// and ledger entries.
//
// # Critical Patterns
//
// Content fingerprints: regulation text identity is computed via Fingerprint
// using SHA-256 with domain separation over NFC-normalized text. The
// fingerprint decides whether a re-import creates a new version or is a no-op.
//
// Deterministic identity: requirement record IDs are derived from
// (regulation id, version, position) and never from wall time or randomness,
// so re-extraction of an unchanged text reproduces identical IDs.
package model
