package rib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rendkit/ribflow/internal/ri"
)

var (
	ErrUnknownRequest = errors.New("rib: unknown request")
	ErrBadArgument    = errors.New("rib: bad argument")
	ErrUnterminated   = errors.New("rib: unterminated string")
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLBracket
	tokRBracket
	tokComment
	tokStructure
)

type token struct {
	kind tokenKind
	text string
	line int
}

// Reader scans a RIB text stream and dispatches one command per request.
type Reader struct {
	r    *bufio.Reader
	line int
	pend *token
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), line: 1}
}

// Run parses the whole stream, dispatching each command to target in
// protocol order. Comment lines are dispatched as ArchiveRecord commands.
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

// Next parses one command. Returns io.EOF at end of stream.
func (rd *Reader) Next() (ri.Command, error) {
	tok, err := rd.next()
	if err != nil {
		return ri.Command{}, err
	}
	switch tok.kind {
	case tokEOF:
		return ri.Command{}, io.EOF
	case tokComment:
		return ri.Command{Op: ri.OpArchiveRecord, Name: "comment", Args: []ri.Value{ri.Str(tok.text)}}, nil
	case tokStructure:
		return ri.Command{Op: ri.OpArchiveRecord, Name: "structure", Args: []ri.Value{ri.Str(tok.text)}}, nil
	case tokIdent:
		return rd.parseRequest(tok)
	default:
		return ri.Command{}, fmt.Errorf("%w: line %d: unexpected %q", ErrBadArgument, tok.line, tok.text)
	}
}

func (rd *Reader) parseRequest(tok token) (ri.Command, error) {
	op, ok := ri.OpByName(tok.text)
	if !ok {
		return ri.Command{}, fmt.Errorf("%w: line %d: %q", ErrUnknownRequest, tok.line, tok.text)
	}
	sig, _ := ri.SignatureOf(op)
	cmd := ri.Command{Op: op}

	for _, kind := range sig.Args {
		switch kind {
		case ri.ArgName:
			s, err := rd.expectString(op)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Name = s
		case ri.ArgString:
			s, err := rd.expectString(op)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Args = append(cmd.Args, ri.Str(s))
		case ri.ArgInt:
			n, err := rd.expectNumber(op)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Args = append(cmd.Args, ri.Int(int32(n)))
		case ri.ArgFloat:
			n, err := rd.expectNumber(op)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Args = append(cmd.Args, ri.Float(float32(n)))
		case ri.ArgIntArray, ri.ArgFloatArray:
			v, err := rd.expectArray(op, kind)
			if err != nil {
				return ri.Command{}, err
			}
			cmd.Args = append(cmd.Args, v)
		}
	}

	if sig.HasParams {
		params, err := rd.parseParams(op)
		if err != nil {
			return ri.Command{}, err
		}
		cmd.Params = params
	}
	return cmd, nil
}

// parseParams consumes trailing token/value pairs until the next request.
func (rd *Reader) parseParams(op ri.Op) (ri.ParamList, error) {
	var params ri.ParamList
	for {
		tok, err := rd.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokString {
			rd.pend = &tok
			return params, nil
		}
		val, err := rd.parseParamValue(op)
		if err != nil {
			return nil, err
		}
		params = append(params, ri.Param{Name: tok.text, Value: val})
	}
}

func (rd *Reader) parseParamValue(op ri.Op) (ri.Value, error) {
	tok, err := rd.next()
	if err != nil {
		return ri.Value{}, err
	}
	switch tok.kind {
	case tokString:
		return ri.Str(tok.text), nil
	case tokNumber:
		return numberValue([]string{tok.text})
	case tokLBracket:
		rd.pend = &tok
		return rd.bracketValue(op)
	default:
		return ri.Value{}, fmt.Errorf("%w: line %d: %s: expected parameter value, got %q",
			ErrBadArgument, tok.line, op, tok.text)
	}
}

// bracketValue reads "[ ... ]" into a single Value, inferring int, float, or
// string storage from the literals.
func (rd *Reader) bracketValue(op ri.Op) (ri.Value, error) {
	open, err := rd.next()
	if err != nil {
		return ri.Value{}, err
	}
	if open.kind != tokLBracket {
		return ri.Value{}, fmt.Errorf("%w: line %d: %s: expected '['", ErrBadArgument, open.line, op)
	}
	var numbers []string
	var strs []string
	for {
		tok, err := rd.next()
		if err != nil {
			return ri.Value{}, err
		}
		switch tok.kind {
		case tokRBracket:
			if len(strs) > 0 {
				return ri.Strs(strs...), nil
			}
			return numberValue(numbers)
		case tokNumber:
			numbers = append(numbers, tok.text)
		case tokString:
			strs = append(strs, tok.text)
		default:
			return ri.Value{}, fmt.Errorf("%w: line %d: %s: unexpected %q in array",
				ErrBadArgument, tok.line, op, tok.text)
		}
	}
}

func (rd *Reader) expectArray(op ri.Op, kind ri.ArgKind) (ri.Value, error) {
	v, err := rd.bracketValue(op)
	if err != nil {
		return ri.Value{}, err
	}
	if kind == ri.ArgFloatArray && v.Kind == ri.ValueInts {
		fs := make([]float32, len(v.Ints))
		for i, n := range v.Ints {
			fs[i] = float32(n)
		}
		return ri.Floats(fs...), nil
	}
	if kind == ri.ArgIntArray && v.Kind != ri.ValueInts {
		return ri.Value{}, fmt.Errorf("%w: %s: expected integer array", ErrBadArgument, op)
	}
	return v, nil
}

func (rd *Reader) expectString(op ri.Op) (string, error) {
	tok, err := rd.next()
	if err != nil {
		return "", err
	}
	if tok.kind != tokString {
		return "", fmt.Errorf("%w: line %d: %s: expected string, got %q",
			ErrBadArgument, tok.line, op, tok.text)
	}
	return tok.text, nil
}

func (rd *Reader) expectNumber(op ri.Op) (float64, error) {
	tok, err := rd.next()
	if err != nil {
		return 0, err
	}
	if tok.kind != tokNumber {
		return 0, fmt.Errorf("%w: line %d: %s: expected number, got %q",
			ErrBadArgument, tok.line, op, tok.text)
	}
	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %v", ErrBadArgument, tok.line, op, err)
	}
	return f, nil
}

// numberValue packs numeric literals as ints when every literal is integral,
// floats otherwise.
func numberValue(literals []string) (ri.Value, error) {
	isFloat := false
	for _, lit := range literals {
		if strings.ContainsAny(lit, ".eE") {
			isFloat = true
			break
		}
	}
	if isFloat {
		fs := make([]float32, len(literals))
		for i, lit := range literals {
			f, err := strconv.ParseFloat(lit, 32)
			if err != nil {
				return ri.Value{}, fmt.Errorf("%w: %v", ErrBadArgument, err)
			}
			fs[i] = float32(f)
		}
		return ri.Floats(fs...), nil
	}
	ns := make([]int32, len(literals))
	for i, lit := range literals {
		n, err := strconv.ParseInt(lit, 10, 32)
		if err != nil {
			return ri.Value{}, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		ns[i] = int32(n)
	}
	return ri.Ints(ns...), nil
}

func (rd *Reader) next() (token, error) {
	if rd.pend != nil {
		tok := *rd.pend
		rd.pend = nil
		return tok, nil
	}
	for {
		c, _, err := rd.r.ReadRune()
		if err == io.EOF {
			return token{kind: tokEOF, line: rd.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		switch {
		case c == '\n':
			rd.line++
		case c == ' ' || c == '\t' || c == '\r':
		case c == '#':
			return rd.scanComment()
		case c == '"':
			return rd.scanString()
		case c == '[':
			return token{kind: tokLBracket, text: "[", line: rd.line}, nil
		case c == ']':
			return token{kind: tokRBracket, text: "]", line: rd.line}, nil
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			return rd.scanNumber(c)
		case isIdentRune(c):
			return rd.scanIdent(c)
		default:
			return token{}, fmt.Errorf("%w: line %d: unexpected character %q", ErrBadArgument, rd.line, c)
		}
	}
}

func (rd *Reader) scanComment() (token, error) {
	kind := tokComment
	var b strings.Builder
	first := true
	for {
		c, _, err := rd.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if c == '\n' {
			rd.line++
			break
		}
		if first && c == '#' {
			kind = tokStructure
			first = false
			continue
		}
		first = false
		b.WriteRune(c)
	}
	return token{kind: kind, text: b.String(), line: rd.line}, nil
}

func (rd *Reader) scanString() (token, error) {
	start := rd.line
	var b strings.Builder
	for {
		c, _, err := rd.r.ReadRune()
		if err == io.EOF {
			return token{}, fmt.Errorf("%w: line %d", ErrUnterminated, start)
		}
		if err != nil {
			return token{}, err
		}
		switch c {
		case '"':
			return token{kind: tokString, text: b.String(), line: start}, nil
		case '\\':
			esc, _, err := rd.r.ReadRune()
			if err != nil {
				return token{}, fmt.Errorf("%w: line %d", ErrUnterminated, start)
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '0', '1', '2', '3', '4', '5', '6', '7':
				// Octal escape, up to three digits.
				n := int(esc - '0')
				for j := 0; j < 2; j++ {
					c, _, err := rd.r.ReadRune()
					if err == io.EOF {
						break
					}
					if err != nil {
						return token{}, err
					}
					if c < '0' || c > '7' {
						rd.r.UnreadRune()
						break
					}
					n = n*8 + int(c-'0')
				}
				b.WriteByte(byte(n))
			default:
				b.WriteRune(esc)
			}
		case '\n':
			rd.line++
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
}

func (rd *Reader) scanNumber(first rune) (token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, _, err := rd.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+' {
			b.WriteRune(c)
			continue
		}
		if err := rd.r.UnreadRune(); err != nil {
			return token{}, err
		}
		break
	}
	return token{kind: tokNumber, text: b.String(), line: rd.line}, nil
}

func (rd *Reader) scanIdent(first rune) (token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, _, err := rd.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if isIdentRune(c) {
			b.WriteRune(c)
			continue
		}
		if err := rd.r.UnreadRune(); err != nil {
			return token{}, err
		}
		break
	}
	return token{kind: tokIdent, text: b.String(), line: rd.line}, nil
}

func isIdentRune(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
