package expr

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/cartkit/core"
)

// RecordSize is the encoded size of a Record in bytes.
const RecordSize = 16

// Code identifies the kind of a record.
type Code int16

const (
	CodeEnd Code = iota
	CodeValue
	CodeBracket
	CodeOr
	CodeAnd
	CodeNot
)

func (c Code) String() string {
	switch c {
	case CodeEnd:
		return "End"
	case CodeValue:
		return "Value"
	case CodeBracket:
		return "Bracket"
	case CodeOr:
		return "Or"
	case CodeAnd:
		return "And"
	case CodeNot:
		return "Not"
	default:
		return fmt.Sprintf("Code(%d)", int16(c))
	}
}

// priority orders operators on the parser stack. Bracket is the lowest so it
// acts as a wall.
func (c Code) priority() int {
	switch c {
	case CodeOr:
		return 1
	case CodeAnd:
		return 2
	case CodeNot:
		return 3
	default:
		return 0
	}
}

func (c Code) valid() bool { return c >= CodeEnd && c <= CodeNot }

// Flag bits marking terminal operands.
const (
	FlagLeftTerminal  int16 = 1 << 0
	FlagRightTerminal int16 = 1 << 1

	flagMask = FlagLeftTerminal | FlagRightTerminal
)

// Operand is either a terminal feature id or the index of an earlier record.
type Operand struct {
	Terminal bool
	Value    int32
}

// Lit returns a terminal operand for feature id.
func Lit(id int32) Operand { return Operand{Terminal: true, Value: id} }

// Ref returns a non-terminal operand pointing at record index i.
func Ref(i int) Operand { return Operand{Value: int32(i)} }

func (o Operand) String() string {
	if o.Terminal {
		return fmt.Sprintf("#%d", o.Value)
	}
	return fmt.Sprintf("@%d", o.Value)
}

// Record is one node of a compiled expression. Value records only use Left.
// Not records only use Left.
type Record struct {
	Code  Code
	Left  Operand
	Right Operand
}

// Flag returns the two-bit terminal flag stored on disk.
func (r Record) Flag() int16 {
	var f int16
	if r.Left.Terminal {
		f |= FlagLeftTerminal
	}
	if r.Right.Terminal {
		f |= FlagRightTerminal
	}
	return f
}

func (r Record) String() string {
	switch r.Code {
	case CodeValue, CodeNot:
		return fmt.Sprintf("%s(%s)", r.Code, r.Left)
	default:
		return fmt.Sprintf("%s(%s, %s)", r.Code, r.Left, r.Right)
	}
}

// AppendRecord appends the 16-byte encoding of r to dst.
//
// Layout: Code int16 | Flag int16 | LeftOp int32 | RightOp int32 | reserved int32.
func AppendRecord(dst []byte, r Record) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(r.Code))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(r.Flag()))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(r.Left.Value))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(r.Right.Value))
	return binary.LittleEndian.AppendUint32(dst, 0)
}

// DecodeRecord decodes one record from the first RecordSize bytes of b.
// The reserved trailing word is ignored.
func DecodeRecord(b []byte) (Record, error) {
	if len(b) < RecordSize {
		return Record{}, core.NewFormatError("decode logic record", -1, "short buffer: %d bytes", len(b))
	}
	code := Code(int16(binary.LittleEndian.Uint16(b[0:2])))
	flag := int16(binary.LittleEndian.Uint16(b[2:4]))
	if !code.valid() {
		return Record{}, core.NewFormatError("decode logic record", -1, "invalid operator code %d", int16(code))
	}
	if flag&^flagMask != 0 {
		return Record{}, core.NewFormatError("decode logic record", -1, "invalid flag 0x%x", flag)
	}
	return Record{
		Code: code,
		Left: Operand{
			Terminal: flag&FlagLeftTerminal != 0,
			Value:    int32(binary.LittleEndian.Uint32(b[4:8])),
		},
		Right: Operand{
			Terminal: flag&FlagRightTerminal != 0,
			Value:    int32(binary.LittleEndian.Uint32(b[8:12])),
		},
	}, nil
}

// WriteRecord writes the encoding of r to w.
func WriteRecord(w io.Writer, r Record) error {
	var buf [RecordSize]byte
	_, err := w.Write(AppendRecord(buf[:0], r))
	return err
}

// ReadRecord reads one record from r.
func ReadRecord(r io.Reader) (Record, error) {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Record{}, &core.FormatError{Op: "read logic record", Offset: -1, Err: err}
	}
	return DecodeRecord(buf[:])
}

// ReadRecords reads n consecutive records from r.
func ReadRecords(r io.Reader, n int) ([]Record, error) {
	if n < 0 {
		return nil, core.NewFormatError("read logic record", -1, "negative record count %d", n)
	}
	out := make([]Record, n)
	for i := range out {
		rec, err := ReadRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = rec
	}
	return out, nil
}
