package rib

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rendkit/ribflow/internal/ri"
)

type captureSink struct {
	cmds []ri.Command
}

func (s *captureSink) Dispatch(cmd ri.Command) error {
	s.cmds = append(s.cmds, cmd)
	return nil
}

func parseAll(t *testing.T, src string) []ri.Command {
	t.Helper()
	sink := &captureSink{}
	if err := NewReader(strings.NewReader(src)).Run(sink); err != nil {
		t.Fatalf("run: %v", err)
	}
	return sink.cmds
}

func TestReaderParsesScene(t *testing.T) {
	src := `##RenderMan RIB
# a test scene
WorldBegin
Surface "plastic" "Ka" [0.5] "Kd" [0.8]
Translate 0 0 -5
Sphere 1 -1 1 360
PointsPolygons [3] [0 1 2] "P" [0 0 0 1 0 0 0 1 0]
WorldEnd
`
	cmds := parseAll(t, src)
	wantOps := []ri.Op{
		ri.OpArchiveRecord, ri.OpArchiveRecord, ri.OpWorldBegin, ri.OpSurface,
		ri.OpTranslate, ri.OpSphere, ri.OpPointsPolygons, ri.OpWorldEnd,
	}
	if len(cmds) != len(wantOps) {
		t.Fatalf("parsed %d commands, want %d", len(cmds), len(wantOps))
	}
	for i, op := range wantOps {
		if cmds[i].Op != op {
			t.Fatalf("command %d is %s, want %s", i, cmds[i].Op, op)
		}
	}

	if cmds[0].Name != "structure" || cmds[0].Args[0].Strings[0] != "RenderMan RIB" {
		t.Fatalf("structure comment parsed as %+v", cmds[0])
	}
	if cmds[1].Name != "comment" || cmds[1].Args[0].Strings[0] != " a test scene" {
		t.Fatalf("comment parsed as %+v", cmds[1])
	}

	surf := cmds[3]
	if surf.Name != "plastic" || len(surf.Params) != 2 {
		t.Fatalf("surface parsed as %+v", surf)
	}
	if surf.Params[0].Name != "Ka" || surf.Params[0].Value.Floats[0] != 0.5 {
		t.Fatalf("surface param parsed as %+v", surf.Params[0])
	}

	tr := cmds[4]
	if len(tr.Args) != 3 || tr.Args[2].Floats[0] != -5 {
		t.Fatalf("translate parsed as %+v", tr)
	}

	poly := cmds[6]
	if poly.Args[0].Kind != ri.ValueInts || poly.Args[1].Ints[2] != 2 {
		t.Fatalf("polygon counts parsed as %+v", poly.Args)
	}
	if poly.Params[0].Value.Kind != ri.ValueInts {
		// "P" has no decimal points; inference stores ints.
		t.Fatalf("P inferred as %v", poly.Params[0].Value.Kind)
	}
}

func TestReaderParamValueForms(t *testing.T) {
	src := `Attribute "identifier" "name" ["ball"] "id" 7 "weight" 1.5`
	cmds := parseAll(t, src)
	if len(cmds) != 1 {
		t.Fatalf("parsed %d commands", len(cmds))
	}
	params := cmds[0].Params
	if len(params) != 3 {
		t.Fatalf("parsed %d params, want 3", len(params))
	}
	if params[0].Value.Strings[0] != "ball" {
		t.Fatalf("string param: %+v", params[0])
	}
	if params[1].Value.Kind != ri.ValueInts || params[1].Value.Ints[0] != 7 {
		t.Fatalf("scalar int param: %+v", params[1])
	}
	if params[2].Value.Kind != ri.ValueFloats || params[2].Value.Floats[0] != 1.5 {
		t.Fatalf("scalar float param: %+v", params[2])
	}
}

func TestReaderPromotesIntArrayForFloatSlot(t *testing.T) {
	cmds := parseAll(t, `ConcatTransform [1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1]`)
	if cmds[0].Args[0].Kind != ri.ValueFloats {
		t.Fatalf("matrix stored as %v, want floats", cmds[0].Args[0].Kind)
	}
	if len(cmds[0].Args[0].Floats) != 16 {
		t.Fatalf("matrix has %d entries", len(cmds[0].Args[0].Floats))
	}
}

func TestReaderErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown request", `Teapot 1`, ErrUnknownRequest},
		{"unterminated string", `Surface "plas`, ErrUnterminated},
		{"bad argument type", `Sphere "one" -1 1 360`, ErrBadArgument},
		{"float array for int slot", `PointsPolygons [3.5] [0 1 2]`, ErrBadArgument},
	}
	for _, tc := range cases {
		err := NewReader(strings.NewReader(tc.src)).Run(&captureSink{})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestReaderNextReturnsEOF(t *testing.T) {
	rd := NewReader(strings.NewReader("WorldBegin\n"))
	if _, err := rd.Next(); err != nil {
		t.Fatalf("first command: %v", err)
	}
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

// Text round trip: parse, format, parse again; the second pass must produce
// identical commands even if the textual spelling was normalized.
func TestStringEscapesRoundTrip(t *testing.T) {
	raw := "bell\a tab\t quote\" back\\ nl\n cr\r del\x7f"
	cmd := ri.Command{Op: ri.OpSurface, Name: raw, Params: ri.ParamList{
		{Name: "label", Value: ri.Str(raw)},
	}}
	line, err := Format(cmd)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if strings.ContainsAny(line, "\a\n\r\x7f") {
		t.Fatalf("control bytes left unescaped: %q", line)
	}

	got := parseAll(t, line+"\n")
	if len(got) != 1 {
		t.Fatalf("parsed %d commands", len(got))
	}
	if got[0].Name != raw {
		t.Fatalf("name round trip: %q", got[0].Name)
	}
	if v := got[0].Params[0].Value.Strings[0]; v != raw {
		t.Fatalf("param round trip: %q", v)
	}
}

func TestReaderWriterRoundTrip(t *testing.T) {
	src := `ArchiveBegin "props"
Surface "wood" "roughness" [0.25]
Sphere 0.5 -0.5 0.5 360
ArchiveEnd
ReadArchive "props"
`
	first := parseAll(t, src)

	var b strings.Builder
	w := NewWriter(&b)
	for _, cmd := range first {
		if err := w.Dispatch(cmd); err != nil {
			t.Fatalf("format: %v", err)
		}
	}
	second := parseAll(t, b.String())

	if len(first) != len(second) {
		t.Fatalf("round trip count: %d then %d", len(first), len(second))
	}
	for i := range first {
		a, err := Format(first[i])
		if err != nil {
			t.Fatalf("format first %d: %v", i, err)
		}
		bLine, err := Format(second[i])
		if err != nil {
			t.Fatalf("format second %d: %v", i, err)
		}
		if a != bLine {
			t.Fatalf("round trip diverges at %d: %q vs %q", i, a, bLine)
		}
	}
}
