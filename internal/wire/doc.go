// Package wire owns the compact binary encoding of the command stream.
//
// Ownership boundary:
// - per-command frame header primitives
// - field (TLV) payload primitives
// - stream writer sink and reader source
package wire
