package ri

// Command is one scene-description request: an op plus its ordered positional
// arguments and trailing parameter list. Treated as immutable once built;
// anything that needs to retain one takes a Clone.
type Command struct {
	Op     Op
	Name   string
	Args   []Value
	Params ParamList
}

// Clone returns a Command sharing no backing storage with c.
func (c Command) Clone() Command {
	out := Command{Op: c.Op, Name: c.Name}
	if len(c.Args) > 0 {
		out.Args = make([]Value, len(c.Args))
		for i, a := range c.Args {
			out.Args[i] = a.Clone()
		}
	}
	out.Params = c.Params.Clone()
	return out
}

// Stage is one pipeline stage. A stage may forward the command to its
// successor, buffer it, transform it, or consume it. Dispatch errors are
// I/O-layer failures from terminal sinks; scope anomalies never surface here.
type Stage interface {
	Dispatch(cmd Command) error
}

// StageFunc adapts a function to the Stage contract.
type StageFunc func(cmd Command) error

func (f StageFunc) Dispatch(cmd Command) error { return f(cmd) }
