package vm

import (
	"encoding/binary"

	"github.com/TaichiLi/asm-vm/decoder"
	"github.com/TaichiLi/asm-vm/token"
)

// Registers is the eight-register general-purpose file: EAX, EBX, ECX,
// EDX, ESI, EDI, ESP, EBP, each 32 bits wide, backed by one flat byte
// array so that byte/word/dword aliases are just different (offset, size)
// windows into the same storage (see decoder.Place).
type Registers struct {
	bytes [NumRegisters * 4]byte
}

// Bytes exposes the backing array to the decoder so it can build register
// places directly against live VM state.
func (r *Registers) Bytes() []byte {
	return r.bytes[:]
}

// Dword register slot indices, matching token.Variant.RegisterInfo.
const (
	slotEAX = 0
	slotEBX = 1
	slotECX = 2
	slotEDX = 3
	slotESI = 4
	slotEDI = 5
	slotESP = 6
	slotEBP = 7
)

// Get reads the full 32-bit value of the dword register at slot.
func (r *Registers) Get(slot int) uint32 {
	return binary.LittleEndian.Uint32(r.bytes[slot*4:])
}

// Set writes the full 32-bit value of the dword register at slot.
func (r *Registers) Set(slot int, value uint32) {
	binary.LittleEndian.PutUint32(r.bytes[slot*4:], value)
}

// Place builds the decoder place for a REGISTER token variant.
func (r *Registers) Place(v token.Variant) decoder.Place {
	slot, offset, size, _ := v.RegisterInfo()
	return decoder.Place{Bytes: r.Bytes(), Offset: slot*4 + offset, Size: size}
}
