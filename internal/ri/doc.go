// Package ri owns the scene-description command contract.
//
// Ownership boundary:
// - the fixed request (op) set and per-op signatures
// - command and value envelopes
// - the single-dispatch stage contract
// - error kinds and the reporter boundary
package ri
