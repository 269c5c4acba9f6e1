// Package connector fetches regulatory texts from external sources and
// normalizes them into canonical RegulationDrafts.
//
// Connectors never touch the store: a draft has no side effect until the
// caller ingests it, so network flakiness cannot corrupt persisted state and
// a failed commit after a successful fetch is safely retryable.
//
// Two sources are supported:
//   - USClient: Federal Register topic search (JSON API)
//   - EUClient: EUR-Lex lookup by CELEX identifier (HTML)
//
// All calls honor the caller's context; timeouts and transport failures map
// to UPSTREAM_UNAVAILABLE, distinct from a definitive NOT_FOUND.
package connector
