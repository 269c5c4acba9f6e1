// Package extract derives engineering-actionable requirement records from a
// committed regulation version.
//
// The pipeline is three stages behind narrow seams:
//
//	segment  - split raw legal prose into candidate clauses
//	classify - keep clauses that state an obligation
//	rewrite  - normalize a kept clause into a testable statement
//
// Classification and rewriting are keyword heuristics, not guaranteed-correct
// NLP: pure definitions and preambles are dropped because they carry no
// obligation marker, and that judgment can be wrong. The heuristics are
// deterministic, which is the property the idempotence contract needs - the
// same text always yields the same record set with the same derived IDs.
//
// Extraction is idempotent per (regulation id, version): recomputed sets are
// compared against the stored set and only a real content change replaces
// records or writes a ledger entry. Concurrent extraction of the same key is
// collapsed into one execution; late callers share its result.
package extract
