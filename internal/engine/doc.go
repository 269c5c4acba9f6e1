// Package engine coordinates connectors, the regulation store, the
// requirement extractor, and the impact resolver behind one facade.
//
// The engine owns orchestration only. Versioning lives in the store,
// clause derivation in extract, and cross-reference matching in impact;
// the engine sequences fetch-then-ingest and head-version resolution,
// and is the surface the HTTP server and the CLI both call.
package engine
