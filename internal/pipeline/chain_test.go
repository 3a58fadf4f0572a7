package pipeline

import (
	"errors"
	"testing"

	"github.com/rendkit/ribflow/internal/archive"
	"github.com/rendkit/ribflow/internal/ri"
)

type captureSink struct {
	cmds []ri.Command
}

func (s *captureSink) Dispatch(cmd ri.Command) error {
	s.cmds = append(s.cmds, cmd)
	return nil
}

type countingStage struct {
	next ri.Stage
	n    int
}

func (s *countingStage) Dispatch(cmd ri.Command) error {
	s.n++
	return s.next.Dispatch(cmd)
}

func TestNewRejectsNilSink(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilSink) {
		t.Fatalf("expected ErrNilSink, got %v", err)
	}
}

func TestChainDispatchesFrontToBack(t *testing.T) {
	sink := &captureSink{}
	front := &countingStage{}
	back := &countingStage{}
	chain, err := New(sink,
		func(next ri.Stage) ri.Stage { front.next = next; return front },
		func(next ri.Stage) ri.Stage { back.next = next; return back },
	)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	if err := chain.Dispatch(ri.Command{Op: ri.OpWorldBegin}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if front.n != 1 || back.n != 1 || len(sink.cmds) != 1 {
		t.Fatalf("chain order broken: front=%d back=%d sink=%d", front.n, back.n, len(sink.cmds))
	}
}

// Replay must target the pipeline head, not the replaying filter's
// successor: a stage in front of the archive filter re-observes every
// replayed command.
func TestReplayReentersPipelineHead(t *testing.T) {
	sink := &captureSink{}
	front := &countingStage{}
	chain, err := New(sink,
		func(next ri.Stage) ri.Stage { front.next = next; return front },
		func(next ri.Stage) ri.Stage {
			return archive.NewFilter(next, ri.NopReporter{}, archive.Config{})
		},
	)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	stream := []ri.Command{
		{Op: ri.OpArchiveBegin, Name: "A"},
		{Op: ri.OpSphere, Args: []ri.Value{ri.Float(1), ri.Float(-1), ri.Float(1), ri.Float(360)}},
		{Op: ri.OpArchiveEnd},
		{Op: ri.OpReadArchive, Name: "A"},
	}
	for _, cmd := range stream {
		if err := chain.Dispatch(cmd); err != nil {
			t.Fatalf("dispatch %s: %v", cmd.Op, err)
		}
	}

	// 4 source commands plus 1 replayed Sphere through the front stage.
	if front.n != 5 {
		t.Fatalf("front stage saw %d commands, want 5 (replay must re-enter head)", front.n)
	}
	if len(sink.cmds) != 1 || sink.cmds[0].Op != ri.OpSphere {
		t.Fatalf("sink received %d commands, want the replayed Sphere", len(sink.cmds))
	}
}
