package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/rendkit/ribflow/internal/ri"
)

// EncodeCommand renders cmd as a frame payload.
func EncodeCommand(cmd ri.Command) []byte {
	out := make([]byte, 0, 64)
	if cmd.Name != "" {
		out = append(out, encodeField(Field{ID: FieldName, Type: TypeStrings, Value: encodeValue(ri.Str(cmd.Name)).Value})...)
	}
	for _, a := range cmd.Args {
		f := encodeValue(a)
		f.ID = FieldArg
		out = append(out, encodeField(f)...)
	}
	for _, p := range cmd.Params {
		out = append(out, encodeField(Field{ID: FieldParamName, Type: TypeStrings, Value: encodeValue(ri.Str(p.Name)).Value})...)
		f := encodeValue(p.Value)
		f.ID = FieldParamValue
		out = append(out, encodeField(f)...)
	}
	return out
}

// DecodeCommand rebuilds a command from a frame.
func DecodeCommand(h Header, payload []byte) (ri.Command, error) {
	cmd := ri.Command{Op: ri.Op(h.Op)}
	if _, ok := ri.SignatureOf(cmd.Op); !ok {
		return ri.Command{}, fmt.Errorf("%w: op %d", ErrBadFieldType, h.Op)
	}
	fields, err := decodeFields(payload)
	if err != nil {
		return ri.Command{}, err
	}
	pendingParam := ""
	haveParam := false
	for _, f := range fields {
		if haveParam && f.ID != FieldParamValue {
			return ri.Command{}, fmt.Errorf("%w: param %q missing value", ErrBadFieldOrder, pendingParam)
		}
		switch f.ID {
		case FieldName:
			v, err := decodeValue(f)
			if err != nil {
				return ri.Command{}, err
			}
			if v.Kind != ri.ValueStrings || len(v.Strings) != 1 {
				return ri.Command{}, fmt.Errorf("%w: name field", ErrBadFieldType)
			}
			cmd.Name = v.Strings[0]
		case FieldArg:
			v, err := decodeValue(f)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Args = append(cmd.Args, v)
		case FieldParamName:
			v, err := decodeValue(f)
			if err != nil {
				return ri.Command{}, err
			}
			if v.Kind != ri.ValueStrings || len(v.Strings) != 1 {
				return ri.Command{}, fmt.Errorf("%w: param name field", ErrBadFieldType)
			}
			pendingParam = v.Strings[0]
			haveParam = true
		case FieldParamValue:
			if !haveParam {
				return ri.Command{}, fmt.Errorf("%w: orphan param value", ErrBadFieldOrder)
			}
			v, err := decodeValue(f)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Params = append(cmd.Params, ri.Param{Name: pendingParam, Value: v})
			haveParam = false
		default:
			// Unknown field IDs are skipped for forward compatibility.
		}
	}
	if haveParam {
		return ri.Command{}, fmt.Errorf("%w: param %q missing value", ErrBadFieldOrder, pendingParam)
	}
	return cmd, nil
}

// Writer is a terminal sink stage framing each command onto w.
type Writer struct {
	w      io.Writer
	limits Limits
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, limits: DefaultLimits()}
}

func (wr *Writer) Dispatch(cmd ri.Command) error {
	return WriteFrame(wr.w, uint16(cmd.Op), EncodeCommand(cmd), wr.limits)
}

// Reader decodes a framed command stream.
type Reader struct {
	r      io.Reader
	limits Limits
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, limits: DefaultLimits()}
}

// Next decodes one command. Returns io.EOF at end of stream.
func (rd *Reader) Next() (ri.Command, error) {
	h, payload, err := ReadFrame(rd.r, rd.limits)
	if err != nil {
		return ri.Command{}, err
	}
	return DecodeCommand(h, payload)
}

// Run decodes the whole stream, dispatching each command to target in order.
func (rd *Reader) Run(target ri.Stage) error {
	for {
		cmd, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := target.Dispatch(cmd); err != nil {
			return err
		}
	}
}
