package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execAdd implements `add dst, src`.
func (vm *VM) execAdd(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applyAdd(dst.GetValue(), src.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}

// execSub implements `sub dst, src`.
func (vm *VM) execSub(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applySub(dst.GetValue(), src.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}

// execAnd implements `and dst, src`.
func (vm *VM) execAnd(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applyLogical(dst.GetValue()&src.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}

// execOr implements `or dst, src`.
func (vm *VM) execOr(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applyLogical(dst.GetValue()|src.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}

// execXor implements `xor dst, src`.
func (vm *VM) execXor(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	result := vm.Flags.applyLogical(dst.GetValue()^src.GetValue(), dst.Size)
	dst.SetValue(result)
	return nil
}
