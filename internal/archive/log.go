package archive

import "github.com/rendkit/ribflow/internal/ri"

// Log is one named, append-only recorded command sequence. Appends are legal
// only while the log is the filter's active recording target; replay is
// non-destructive and repeatable.
type Log struct {
	name string
	cmds []ri.Command
}

func newLog(name string) *Log {
	return &Log{name: name}
}

// Name returns the key the log was recorded under.
func (l *Log) Name() string { return l.name }

// Len returns the number of recorded commands.
func (l *Log) Len() int { return len(l.cmds) }

// append records cmd. The log takes its own deep copy so recorded commands
// are exclusively owned here, whatever the caller does with cmd afterwards.
func (l *Log) append(cmd ri.Command) {
	l.cmds = append(l.cmds, cmd.Clone())
}

// Replay re-emits every recorded command, in append order, to target.
// The replayed stream is flat: nested scope semantics are re-derived by
// whatever filter sits at target, exactly as for freshly issued commands.
func (l *Log) Replay(target ri.Stage) error {
	for _, cmd := range l.cmds {
		if err := target.Dispatch(cmd); err != nil {
			return err
		}
	}
	return nil
}
