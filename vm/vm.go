// Package vm implements the execution engine: the dispatch loop over a
// preprocessed instruction stream, together with the register file, flags,
// stack and memory it operates on.
package vm

import (
	"github.com/TaichiLi/asm-vm/decoder"
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// VM is the complete machine state for one run: registers, flags, the two
// byte-addressable arrays (stack and memory), the instruction stream and
// the program counter that indexes it.
type VM struct {
	Regs  Registers
	Flags Flags

	Memory []byte
	Stack  []byte

	Stream []token.Token
	EIP    uint32

	// CallDepth models returning from the entry routine: call increments
	// it, ret decrements it, and reaching zero halts the machine.
	CallDepth uint32

	MaxCycles uint64
	Cycles    uint64

	Halted   bool
	LastErr  *vmerror.Error
	decoder  *decoder.Decoder
}

// New allocates a VM with the given stack and memory sizes and cycle
// budget. Call Load before Run.
func New(stackBytes, memBytes int, maxCycles uint64) *VM {
	vm := &VM{
		Memory:    make([]byte, memBytes),
		Stack:     make([]byte, stackBytes),
		CallDepth: 1,
		MaxCycles: maxCycles,
	}
	top := uint32(len(vm.Stack))
	vm.Regs.Set(slotESP, top)
	vm.Regs.Set(slotEBP, top)
	return vm
}

// Load installs a preprocessed instruction stream and sets EIP to entry.
func (vm *VM) Load(stream []token.Token, entry int) {
	vm.Stream = stream
	vm.EIP = uint32(entry)
	vm.decoder = decoder.New(vm.Stream, &vm.EIP, vm.Regs.Bytes(), vm.Memory)
}

// Reset reinitializes registers, flags, memory and stack to their startup
// state and rewinds EIP to entry, keeping the already-loaded instruction
// stream. Used by the debugger's "reset" command to rerun a program without
// reloading it from disk.
func (vm *VM) Reset(entry int) {
	vm.Regs = Registers{}
	vm.Flags = Flags{}
	for i := range vm.Memory {
		vm.Memory[i] = 0
	}
	for i := range vm.Stack {
		vm.Stack[i] = 0
	}
	top := uint32(len(vm.Stack))
	vm.Regs.Set(slotESP, top)
	vm.Regs.Set(slotEBP, top)
	vm.CallDepth = 1
	vm.Cycles = 0
	vm.Halted = false
	vm.LastErr = nil
	vm.EIP = uint32(entry)
	vm.decoder = decoder.New(vm.Stream, &vm.EIP, vm.Regs.Bytes(), vm.Memory)
}

// posAt returns the source position of the token at index idx, or a zero
// position if idx is out of range (used only for already-fatal conditions).
func (vm *VM) posAt(idx uint32) token.Position {
	if int(idx) < len(vm.Stream) {
		return vm.Stream[idx].Pos
	}
	return token.Position{}
}

func (vm *VM) fail(pos token.Position, format string, args ...interface{}) *vmerror.Error {
	err := vmerror.New(pos, vmerror.Runtime, format, args...)
	vm.LastErr = err
	vm.Halted = true
	return err
}

// EAX, EBX, ECX and EDX expose the register values the success channel
// reports once the run halts.
func (vm *VM) EAX() uint32 { return vm.Regs.Get(slotEAX) }
func (vm *VM) EBX() uint32 { return vm.Regs.Get(slotEBX) }
func (vm *VM) ECX() uint32 { return vm.Regs.Get(slotECX) }
func (vm *VM) EDX() uint32 { return vm.Regs.Get(slotEDX) }
func (vm *VM) ESI() uint32 { return vm.Regs.Get(slotESI) }
func (vm *VM) EDI() uint32 { return vm.Regs.Get(slotEDI) }
func (vm *VM) ESP() uint32 { return vm.Regs.Get(slotESP) }
func (vm *VM) EBP() uint32 { return vm.Regs.Get(slotEBP) }

// pushBytes decrements ESP by size and writes value at the new top of
// stack, little-endian (full descending stack discipline).
func (vm *VM) pushBytes(pos token.Position, value uint32, size int) *vmerror.Error {
	esp := vm.Regs.Get(slotESP)
	if esp < uint32(size) {
		return vm.fail(pos, "stack overflow")
	}
	esp -= uint32(size)
	vm.Regs.Set(slotESP, esp)
	decoder.Place{Bytes: vm.Stack, Offset: int(esp), Size: size}.SetValue(value)
	return nil
}

// popBytes reads size bytes at the current top of stack and increments ESP
// past them.
func (vm *VM) popBytes(pos token.Position, size int) (uint32, *vmerror.Error) {
	esp := vm.Regs.Get(slotESP)
	if int64(esp)+int64(size) > int64(len(vm.Stack)) {
		return 0, vm.fail(pos, "stack underflow")
	}
	place := decoder.Place{Bytes: vm.Stack, Offset: int(esp), Size: size}
	value := place.GetValue()
	vm.Regs.Set(slotESP, esp+uint32(size))
	return value, nil
}
