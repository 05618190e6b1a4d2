// Package decoder implements the operand-decoding machinery the execution
// engine calls into for every operand it consumes: register, immediate and
// sized-memory forms, unified behind a single addressable "place" triple.
package decoder

import "encoding/binary"

// Place is the canonical lvalue/rvalue triple: a byte container together
// with the offset and width (1, 2 or 4 bytes) of the value living inside
// it. It unifies registers, memory references and freshly-materialised
// immediates behind one read/write interface.
type Place struct {
	Bytes  []byte
	Offset int
	Size   int
}

// GetValue reads Size little-endian bytes at Offset and zero-extends them
// to a uint32.
func (p Place) GetValue() uint32 {
	switch p.Size {
	case 1:
		return uint32(p.Bytes[p.Offset])
	case 2:
		return uint32(binary.LittleEndian.Uint16(p.Bytes[p.Offset:]))
	case 4:
		return binary.LittleEndian.Uint32(p.Bytes[p.Offset:])
	default:
		panic("decoder: invalid place size")
	}
}

// SetValue writes the low Size bytes of value into the place, little
// endian, leaving every other byte of the containing register or memory
// cell untouched.
func (p Place) SetValue(value uint32) {
	switch p.Size {
	case 1:
		p.Bytes[p.Offset] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(p.Bytes[p.Offset:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(p.Bytes[p.Offset:], value)
	default:
		panic("decoder: invalid place size")
	}
}

// NewImmediatePlace materialises an immediate value into its own 4-byte
// buffer so that places, including immediates, are always backed by real
// bytes with no special-casing at the read/write layer.
func NewImmediatePlace(value uint32, size int) Place {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	return Place{Bytes: buf, Offset: 0, Size: size}
}
