// Package impact computes, on demand, the product artifacts affected by a
// requirement: components, tests, and documents.
//
// The mapping lives in a cross-reference model - configuration data, not
// code. The model is a CUE file carrying a version string and a list of
// keyword rules; it is validated against a schema at load time so a
// malformed model is rejected with a positioned error instead of silently
// resolving nothing.
//
// Resolution is a pure function of (requirement text, model state): keyword
// rules are matched case-insensitively, matching rules' artifact sets are
// unioned, and the result is sorted. Identical inputs therefore produce
// byte-identical assessments, which keeps repeated UI loads stable. A cache
// keyed by (requirement id, model version) is an optimization only.
package impact
