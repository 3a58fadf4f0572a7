package rib

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rendkit/ribflow/internal/ri"
)

var ErrUnknownOp = errors.New("rib: unknown op")

// Writer is a terminal sink stage serializing each dispatched command as one
// RIB text line.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Dispatch writes cmd as RIB text. ArchiveRecord commands come out as
// comment lines rather than requests.
func (wr *Writer) Dispatch(cmd ri.Command) error {
	line, err := Format(cmd)
	if err != nil {
		return err
	}
	_, err = io.WriteString(wr.w, line+"\n")
	return err
}

// Format renders one command as a RIB text line, without trailing newline.
func Format(cmd ri.Command) (string, error) {
	sig, ok := ri.SignatureOf(cmd.Op)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownOp, cmd.Op)
	}

	if cmd.Op == ri.OpArchiveRecord {
		return formatRecord(cmd), nil
	}

	var b strings.Builder
	b.WriteString(cmd.Op.String())

	argIdx := 0
	for _, kind := range sig.Args {
		b.WriteByte(' ')
		switch kind {
		case ri.ArgName:
			b.WriteString(quoteString(cmd.Name))
		default:
			if argIdx >= len(cmd.Args) {
				return "", fmt.Errorf("rib: %s: missing argument %d", cmd.Op, argIdx)
			}
			writeValue(&b, cmd.Args[argIdx], kind == ri.ArgIntArray || kind == ri.ArgFloatArray)
			argIdx++
		}
	}

	for _, p := range cmd.Params {
		b.WriteByte(' ')
		b.WriteString(quoteString(p.Name))
		b.WriteByte(' ')
		writeValue(&b, p.Value, true)
	}
	return b.String(), nil
}

func formatRecord(cmd ri.Command) string {
	text := ""
	if len(cmd.Args) > 0 && len(cmd.Args[0].Strings) > 0 {
		text = cmd.Args[0].Strings[0]
	}
	if cmd.Name == "structure" {
		return "##" + text
	}
	return "#" + text
}

func writeValue(b *strings.Builder, v ri.Value, bracket bool) {
	if bracket {
		b.WriteByte('[')
	}
	switch v.Kind {
	case ri.ValueInts:
		for i, n := range v.Ints {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatInt(int64(n), 10))
		}
	case ri.ValueStrings:
		for i, s := range v.Strings {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(quoteString(s))
		}
	default:
		for i, f := range v.Floats {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatFloat(f))
		}
	}
	if bracket {
		b.WriteByte(']')
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// quoteString emits only the escapes the scanner decodes: the named ones
// plus octal for remaining control bytes. Bytes outside the ASCII control
// range pass through untouched, so UTF-8 text survives as written.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
