// Package store provides SQLite-backed durable storage for the traceability
// engine.
//
// The store holds three families of state:
//   - Regulations: immutable versioned rows, one per (reg_id, version)
//   - Requirements: derived records, replaced atomically per (reg_id, version)
//   - Ledger: append-only audit log of every mutation
//
// # Critical Patterns
//
// CP-1: Version immutability
//   - regulation rows are INSERT-only; a changed text inserts (reg_id, v+1)
//   - UNIQUE(reg_id, version) makes duplicate-version races detectable
//
// CP-2: Explicit head pointer
//   - regulation_heads(reg_id, version) names the latest version; it is
//     updated in the same transaction as the version insert, never inferred
//     from ambient row ordering
//
// CP-3: Ledger last
//   - the ledger append is the final statement of every mutating
//     transaction, so a failed append rolls the mutation back and no entity
//     is ever committed without an audit trail
//
// CP-4: Deterministic query results
//   - every multi-row read carries an ORDER BY over stable columns, so
//     repeated reads with no intervening writes are identical
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
