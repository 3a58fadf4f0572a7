// Package pipeline owns filter chain wiring.
//
// Ownership boundary:
// - stage construction order (front to back)
// - the pipeline head replay target handed to every filter
package pipeline
