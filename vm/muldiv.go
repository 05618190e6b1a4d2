package vm

import (
	"github.com/TaichiLi/asm-vm/decoder"
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// regBytePlace returns a place over a register slot with the given byte
// offset and size, used where the split multiply/divide results land in
// specific sub-registers (AH, DX, EDX, ...).
func (vm *VM) regBytePlace(slot, offset, size int) decoder.Place {
	return decoder.Place{Bytes: vm.Regs.Bytes(), Offset: slot*4 + offset, Size: size}
}

// execMul implements the single-operand unsigned `mul src`: EAX (or AX, or
// AL) times src, widening into the next register up. CF and OF are set
// together whenever the product does not fit in the low half.
func (vm *VM) execMul(pos token.Position) *vmerror.Error {
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	size := src.Size
	a := uint64(vm.Regs.Get(slotEAX) & widthMask(size))
	b := uint64(src.GetValue())
	product := a * b
	overflow := product>>uint(size*8) != 0

	vm.Flags.CF = overflow
	vm.Flags.OF = overflow

	switch size {
	case 1:
		vm.regBytePlace(slotEAX, 0, 2).SetValue(uint32(product))
	case 2:
		vm.regBytePlace(slotEAX, 0, 2).SetValue(uint32(product))
		vm.regBytePlace(slotEDX, 0, 2).SetValue(uint32(product >> 16))
	case 4:
		vm.Regs.Set(slotEAX, uint32(product))
		vm.Regs.Set(slotEDX, uint32(product>>32))
	}
	return nil
}

// execImul implements the two- and three-operand signed forms:
// `imul dst, src` (dst *= src) and `imul dst, src1, src2` (dst = src1*src2).
// CF and OF are set together when the full signed product does not fit
// back into dst's width.
func (vm *VM) execImul(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseRegister()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	op1, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}

	var a, b int64
	if vm.decoder.Peek().Variant == token.COMMA {
		if err := vm.decoder.ExpectComma(); err != nil {
			return vm.fail(pos, "%s", err.Message)
		}
		op2, err := vm.decoder.ParseSource()
		if err != nil {
			return vm.fail(pos, "%s", err.Message)
		}
		a = int64(signExtend(op1.GetValue(), op1.Size))
		b = int64(signExtend(op2.GetValue(), op2.Size))
	} else {
		a = int64(signExtend(dst.GetValue(), dst.Size))
		b = int64(signExtend(op1.GetValue(), op1.Size))
	}

	product := a * b
	truncated := uint32(product) & widthMask(dst.Size)
	overflow := int64(signExtend(truncated, dst.Size)) != product

	vm.Flags.CF = overflow
	vm.Flags.OF = overflow
	dst.SetValue(truncated)
	return nil
}

// execDiv implements unsigned `div src`: the dividend is the
// size-appropriate concatenation of registers (AX for a byte divisor,
// DX:AX for a word divisor, EDX:EAX for a dword divisor); quotient and
// remainder land back in the matching sub-registers.
func (vm *VM) execDiv(pos token.Position) *vmerror.Error {
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	size := src.Size
	divisor := uint64(src.GetValue())
	if divisor == 0 {
		return vm.fail(pos, "division by zero")
	}

	var dividend uint64
	switch size {
	case 1:
		dividend = uint64(vm.Regs.Get(slotEAX) & 0xFFFF)
	case 2:
		dividend = uint64(vm.Regs.Get(slotEDX)&0xFFFF)<<16 | uint64(vm.Regs.Get(slotEAX)&0xFFFF)
	case 4:
		dividend = uint64(vm.Regs.Get(slotEDX))<<32 | uint64(vm.Regs.Get(slotEAX))
	}

	quotient := dividend / divisor
	remainder := dividend % divisor
	if quotient > uint64(widthMask(size)) {
		return vm.fail(pos, "division overflow")
	}

	switch size {
	case 1:
		vm.regBytePlace(slotEAX, 0, 1).SetValue(uint32(quotient))
		vm.regBytePlace(slotEAX, 1, 1).SetValue(uint32(remainder))
	case 2:
		vm.regBytePlace(slotEAX, 0, 2).SetValue(uint32(quotient))
		vm.regBytePlace(slotEDX, 0, 2).SetValue(uint32(remainder))
	case 4:
		vm.Regs.Set(slotEAX, uint32(quotient))
		vm.Regs.Set(slotEDX, uint32(remainder))
	}
	return nil
}

// execIdiv implements signed `idiv src`, the same register layout as div
// but with the dividend, divisor, quotient and remainder all interpreted
// as two's-complement signed values and truncation toward zero.
func (vm *VM) execIdiv(pos token.Position) *vmerror.Error {
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	size := src.Size
	divisor := int64(signExtend(src.GetValue(), size))
	if divisor == 0 {
		return vm.fail(pos, "division by zero")
	}

	var dividend int64
	switch size {
	case 1:
		dividend = int64(int16(vm.Regs.Get(slotEAX) & 0xFFFF))
	case 2:
		combined := uint32(vm.Regs.Get(slotEDX)&0xFFFF)<<16 | (vm.Regs.Get(slotEAX) & 0xFFFF)
		dividend = int64(int32(combined))
	case 4:
		dividend = int64(vm.Regs.Get(slotEDX))<<32 | int64(vm.Regs.Get(slotEAX))
	}

	quotient := dividend / divisor
	remainder := dividend % divisor
	if int64(signExtend(uint32(quotient), size)) != quotient {
		return vm.fail(pos, "division overflow")
	}

	switch size {
	case 1:
		vm.regBytePlace(slotEAX, 0, 1).SetValue(uint32(quotient))
		vm.regBytePlace(slotEAX, 1, 1).SetValue(uint32(remainder))
	case 2:
		vm.regBytePlace(slotEAX, 0, 2).SetValue(uint32(quotient))
		vm.regBytePlace(slotEDX, 0, 2).SetValue(uint32(remainder))
	case 4:
		vm.Regs.Set(slotEAX, uint32(quotient))
		vm.Regs.Set(slotEDX, uint32(remainder))
	}
	return nil
}
