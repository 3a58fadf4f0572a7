package ri

// ValueKind tags the payload slot a Value carries.
type ValueKind uint8

const (
	ValueFloats ValueKind = iota + 1
	ValueInts
	ValueStrings
)

// Value is one argument payload: a float, int, or string array. Scalars are
// length-1 arrays; scene floats are float32 end to end.
type Value struct {
	Kind    ValueKind
	Floats  []float32
	Ints    []int32
	Strings []string
}

func Float(v float32) Value {
	return Value{Kind: ValueFloats, Floats: []float32{v}}
}

func Floats(vs ...float32) Value {
	return Value{Kind: ValueFloats, Floats: vs}
}

func Int(v int32) Value {
	return Value{Kind: ValueInts, Ints: []int32{v}}
}

func Ints(vs ...int32) Value {
	return Value{Kind: ValueInts, Ints: vs}
}

func Str(v string) Value {
	return Value{Kind: ValueStrings, Strings: []string{v}}
}

func Strs(vs ...string) Value {
	return Value{Kind: ValueStrings, Strings: vs}
}

// Clone returns a Value sharing no backing storage with v.
func (v Value) Clone() Value {
	out := Value{Kind: v.Kind}
	if len(v.Floats) > 0 {
		out.Floats = make([]float32, len(v.Floats))
		copy(out.Floats, v.Floats)
	}
	if len(v.Ints) > 0 {
		out.Ints = make([]int32, len(v.Ints))
		copy(out.Ints, v.Ints)
	}
	if len(v.Strings) > 0 {
		out.Strings = make([]string, len(v.Strings))
		copy(out.Strings, v.Strings)
	}
	return out
}

// Param is one trailing token/value pair.
type Param struct {
	Name  string
	Value Value
}

// ParamList is an ordered token/value list.
type ParamList []Param

// Clone returns a ParamList sharing no backing storage with pl.
func (pl ParamList) Clone() ParamList {
	if len(pl) == 0 {
		return nil
	}
	out := make(ParamList, len(pl))
	for i, p := range pl {
		out[i] = Param{Name: p.Name, Value: p.Value.Clone()}
	}
	return out
}
