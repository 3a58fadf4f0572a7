package pipeline

import (
	"errors"

	"github.com/rendkit/ribflow/internal/ri"
)

var ErrNilSink = errors.New("pipeline: nil sink")

// StageFactory builds one filter stage around its downstream successor.
type StageFactory func(next ri.Stage) ri.Stage

// HeadSetter is implemented by stages that replay into the pipeline head.
// The chain installs itself as the head after wiring, so replayed commands
// re-enter stage 0 and every filter re-observes them.
type HeadSetter interface {
	SetHead(head ri.Stage)
}

// Chain is an ordered filter pipeline ending in a terminal sink. The chain
// itself satisfies Stage: dispatching into it dispatches into stage 0.
type Chain struct {
	first ri.Stage
}

// New wires factories front to back around sink. factories[0] builds the
// stage closest to the source.
func New(sink ri.Stage, factories ...StageFactory) (*Chain, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	stages := make([]ri.Stage, 0, len(factories))
	cur := sink
	for i := len(factories) - 1; i >= 0; i-- {
		cur = factories[i](cur)
		stages = append(stages, cur)
	}
	c := &Chain{first: cur}
	for _, s := range stages {
		if hs, ok := s.(HeadSetter); ok {
			hs.SetHead(c)
		}
	}
	return c, nil
}

// Dispatch feeds one command into the front of the pipeline.
func (c *Chain) Dispatch(cmd ri.Command) error {
	return c.first.Dispatch(cmd)
}
