package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/rendkit/ribflow/internal/ri"
)

const fieldHeaderLen = 7

// Field IDs inside a command payload.
const (
	FieldName       uint16 = 1
	FieldArg        uint16 = 2 // repeated, in positional order
	FieldParamName  uint16 = 3 // always followed by its FieldParamValue
	FieldParamValue uint16 = 4
)

// Value type IDs.
const (
	TypeFloats  uint8 = 1
	TypeInts    uint8 = 2
	TypeStrings uint8 = 3
)

var (
	ErrShortFieldHeader = errors.New("wire: short field header")
	ErrShortFieldValue  = errors.New("wire: short field value")
	ErrBadFieldType     = errors.New("wire: bad field type")
	ErrBadFieldOrder    = errors.New("wire: bad field order")
)

// Field is one decoded payload field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

func encodeField(f Field) []byte {
	buf := make([]byte, fieldHeaderLen+len(f.Value))
	binary.BigEndian.PutUint16(buf[0:2], f.ID)
	buf[2] = f.Type
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(f.Value)))
	copy(buf[7:], f.Value)
	return buf
}

func decodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < fieldHeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := binary.BigEndian.Uint16(payload[i : i+2])
		typeID := payload[i+2]
		l := binary.BigEndian.Uint32(payload[i+3 : i+7])
		i += fieldHeaderLen
		if uint32(len(payload)-i) < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func encodeValue(v ri.Value) Field {
	switch v.Kind {
	case ri.ValueInts:
		buf := make([]byte, 4*len(v.Ints))
		for i, n := range v.Ints {
			binary.BigEndian.PutUint32(buf[4*i:], uint32(n))
		}
		return Field{Type: TypeInts, Value: buf}
	case ri.ValueStrings:
		buf := make([]byte, 0, 16)
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(v.Strings)))
		buf = append(buf, n[:]...)
		for _, s := range v.Strings {
			binary.BigEndian.PutUint32(n[:], uint32(len(s)))
			buf = append(buf, n[:]...)
			buf = append(buf, s...)
		}
		return Field{Type: TypeStrings, Value: buf}
	default:
		buf := make([]byte, 4*len(v.Floats))
		for i, f := range v.Floats {
			binary.BigEndian.PutUint32(buf[4*i:], math.Float32bits(f))
		}
		return Field{Type: TypeFloats, Value: buf}
	}
}

func decodeValue(f Field) (ri.Value, error) {
	switch f.Type {
	case TypeFloats:
		if len(f.Value)%4 != 0 {
			return ri.Value{}, fmt.Errorf("%w: float payload %d bytes", ErrShortFieldValue, len(f.Value))
		}
		fs := make([]float32, len(f.Value)/4)
		for i := range fs {
			fs[i] = math.Float32frombits(binary.BigEndian.Uint32(f.Value[4*i:]))
		}
		return ri.Floats(fs...), nil
	case TypeInts:
		if len(f.Value)%4 != 0 {
			return ri.Value{}, fmt.Errorf("%w: int payload %d bytes", ErrShortFieldValue, len(f.Value))
		}
		ns := make([]int32, len(f.Value)/4)
		for i := range ns {
			ns[i] = int32(binary.BigEndian.Uint32(f.Value[4*i:]))
		}
		return ri.Ints(ns...), nil
	case TypeStrings:
		if len(f.Value) < 4 {
			return ri.Value{}, ErrShortFieldValue
		}
		count := binary.BigEndian.Uint32(f.Value[0:4])
		// Each string costs at least its 4-byte length prefix. A count the
		// payload cannot hold is rejected before it sizes an allocation.
		if count > uint32(len(f.Value)-4)/4 {
			return ri.Value{}, fmt.Errorf("%w: %d strings in %d bytes", ErrShortFieldValue, count, len(f.Value))
		}
		strs := make([]string, 0, count)
		i := 4
		for n := uint32(0); n < count; n++ {
			if len(f.Value)-i < 4 {
				return ri.Value{}, ErrShortFieldValue
			}
			l := int(binary.BigEndian.Uint32(f.Value[i : i+4]))
			i += 4
			if len(f.Value)-i < l {
				return ri.Value{}, ErrShortFieldValue
			}
			strs = append(strs, string(f.Value[i:i+l]))
			i += l
		}
		return ri.Strs(strs...), nil
	default:
		return ri.Value{}, fmt.Errorf("%w: %d", ErrBadFieldType, f.Type)
	}
}
