package archive

import (
	"fmt"

	"github.com/rendkit/ribflow/internal/ri"
)

// DefaultMaxReplayDepth bounds reentrant replay. The recorded data may nest
// references arbitrarily, and a self-referential archive would otherwise
// recurse forever.
const DefaultMaxReplayDepth = 64

// Config carries filter tunables.
type Config struct {
	// MaxReplayDepth is the reentrant replay ceiling. Zero means
	// DefaultMaxReplayDepth.
	MaxReplayDepth int
}

// Filter intercepts ArchiveBegin/ArchiveEnd and ObjectBegin/ObjectEnd
// brackets, records everything issued inside them into named logs, and
// replays a log into the pipeline head whenever ReadArchive or
// ObjectInstance references its name. Everything else is forwarded
// untouched while idle and buffered while recording.
//
// Archives nest; a nested bracket pair is buffered verbatim and only the
// outermost pair drives recording state. Object instances never nest: inner
// Object brackets seen while recording are buffered as ordinary commands.
type Filter struct {
	next     ri.Stage
	head     ri.Stage
	reporter ri.Reporter

	archives map[string]*Log
	objects  map[string]*Log

	current  *Log
	nested   int
	inObject bool

	replayDepth    int
	maxReplayDepth int
}

// NewFilter builds a filter forwarding to next and reporting recoverable
// conditions to reporter. The replay head defaults to the filter itself;
// chain wiring overrides it via SetHead so every stage re-observes replays.
func NewFilter(next ri.Stage, reporter ri.Reporter, cfg Config) *Filter {
	if reporter == nil {
		reporter = ri.NopReporter{}
	}
	depth := cfg.MaxReplayDepth
	if depth <= 0 {
		depth = DefaultMaxReplayDepth
	}
	f := &Filter{
		next:           next,
		reporter:       reporter,
		archives:       make(map[string]*Log),
		objects:        make(map[string]*Log),
		maxReplayDepth: depth,
	}
	f.head = f
	return f
}

// SetHead points replay at the first stage of the whole pipeline.
func (f *Filter) SetHead(head ri.Stage) {
	if head != nil {
		f.head = head
	}
}

// Archive returns the recorded archive log under name, if any.
func (f *Filter) Archive(name string) (*Log, bool) {
	l, ok := f.archives[name]
	return l, ok
}

// Object returns the recorded object instance log under name, if any.
func (f *Filter) Object(name string) (*Log, bool) {
	l, ok := f.objects[name]
	return l, ok
}

func (f *Filter) recording() bool { return f.current != nil }

// Dispatch applies the scope rules to one command. Replay re-enters this
// method through the pipeline head, so a replayed stream may open new
// recordings or trigger further replays.
func (f *Filter) Dispatch(cmd ri.Command) error {
	switch cmd.Op {
	case ri.OpArchiveBegin:
		return f.archiveBegin(cmd)
	case ri.OpArchiveEnd:
		return f.archiveEnd(cmd)
	case ri.OpReadArchive:
		return f.readArchive(cmd)
	case ri.OpObjectBegin:
		return f.objectBegin(cmd)
	case ri.OpObjectEnd:
		return f.objectEnd(cmd)
	case ri.OpObjectInstance:
		return f.objectInstance(cmd)
	case ri.OpArchiveRecord:
		// Comment records are dropped inside recordings, matching the
		// reference stream behaviour.
		if f.recording() {
			return nil
		}
		return f.next.Dispatch(cmd)
	default:
		if f.recording() {
			f.current.append(cmd)
			return nil
		}
		return f.next.Dispatch(cmd)
	}
}

func (f *Filter) archiveBegin(cmd ri.Command) error {
	if f.recording() {
		if !f.inObject {
			f.nested++
		}
		f.current.append(cmd)
		return nil
	}
	l := newLog(cmd.Name)
	f.archives[cmd.Name] = l
	f.current = l
	f.nested = 0
	return nil
}

func (f *Filter) archiveEnd(cmd ri.Command) error {
	switch {
	case f.recording() && f.inObject:
		f.current.append(cmd)
	case f.recording() && f.nested > 0:
		f.current.append(cmd)
		f.nested--
	case f.recording():
		f.current = nil
	default:
		// Unmatched ArchiveEnd while idle: tolerated, swallowed.
	}
	return nil
}

func (f *Filter) readArchive(cmd ri.Command) error {
	if f.recording() {
		f.current.append(cmd)
		return nil
	}
	if l, ok := f.archives[cmd.Name]; ok {
		return f.replay(l)
	}
	// Unknown here usually means on-disk; resolution is downstream's job.
	return f.next.Dispatch(cmd)
}

func (f *Filter) objectBegin(cmd ri.Command) error {
	if f.recording() {
		f.current.append(cmd)
		return nil
	}
	l := newLog(cmd.Name)
	f.objects[cmd.Name] = l
	f.current = l
	f.inObject = true
	return nil
}

func (f *Filter) objectEnd(cmd ri.Command) error {
	switch {
	case f.recording() && !f.inObject:
		f.current.append(cmd)
	case f.recording():
		f.inObject = false
		f.current = nil
	default:
		// Unmatched ObjectEnd while idle: tolerated, swallowed.
	}
	return nil
}

func (f *Filter) objectInstance(cmd ri.Command) error {
	if f.recording() {
		f.current.append(cmd)
		return nil
	}
	if l, ok := f.objects[cmd.Name]; ok {
		return f.replay(l)
	}
	f.reporter.Report(ri.ErrBadHandle, fmt.Sprintf("bad object name %q", cmd.Name))
	return nil
}

func (f *Filter) replay(l *Log) error {
	if f.replayDepth >= f.maxReplayDepth {
		f.reporter.Report(ri.ErrLimit, fmt.Sprintf(
			"replay depth %d exceeded replaying %q", f.maxReplayDepth, l.Name()))
		return nil
	}
	f.replayDepth++
	defer func() { f.replayDepth-- }()
	return l.Replay(f.head)
}
