// Package archive owns inline archive and object instance capture.
//
// Ownership boundary:
// - named replayable command logs (archives, object instances)
// - the recording scope state machine
// - replay into the pipeline head, including reentrant replay
//
// The filter never owns its pipeline neighbours; it owns every log and
// every command it records, for the lifetime of the filter.
package archive
