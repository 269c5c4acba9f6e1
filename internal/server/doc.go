// Package server exposes the engine over HTTP.
//
// Handlers translate between HTTP and engine calls and nothing else:
// no handler touches the store or a connector directly. Error bodies
// are uniform {"error": {"kind", "message"}} objects and every fault
// kind has exactly one status code, so clients can branch on either.
package server
