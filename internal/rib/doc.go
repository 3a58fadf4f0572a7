// Package rib owns the RIB text surface of the command stream.
//
// Ownership boundary:
// - serializing commands to RIB text (terminal sink stage)
// - scanning RIB text into commands and feeding a stage
//
// Only the fixed operation set in internal/ri is understood; this is a
// stream surface, not a renderer.
package rib
