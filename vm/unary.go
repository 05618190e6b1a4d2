package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execInc implements `inc dst`: dst+1, SF/ZF/OF updated, CF left unchanged
// (real x86 semantics -- unlike add, inc never reports a carry).
func (vm *VM) execInc(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	savedCF := vm.Flags.CF
	result := vm.Flags.applyAdd(dst.GetValue(), 1, dst.Size)
	vm.Flags.CF = savedCF
	dst.SetValue(result)
	return nil
}

// execDec implements `dec dst`: dst-1, SF/ZF/OF updated, CF left unchanged.
func (vm *VM) execDec(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	savedCF := vm.Flags.CF
	result := vm.Flags.applySub(dst.GetValue(), 1, dst.Size)
	vm.Flags.CF = savedCF
	dst.SetValue(result)
	return nil
}

// execNot implements `not dst`: bitwise complement, no flag effects at all.
func (vm *VM) execNot(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	dst.SetValue(^dst.GetValue())
	return nil
}

// execNeg implements `neg dst`: two's-complement negation, computed as
// 0 - dst so applySub's existing CF/OF derivation already matches the
// required "CF set unless operand is zero" and "OF set only when negating
// the most negative representable value" rules.
func (vm *VM) execNeg(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applySub(0, dst.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}
