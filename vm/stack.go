package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execPush implements `push src`.
func (vm *VM) execPush(pos token.Position) *vmerror.Error {
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	return vm.pushBytes(pos, src.GetValue(), src.Size)
}

// execPop implements `pop dst`.
func (vm *VM) execPop(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	value, perr := vm.popBytes(pos, dst.Size)
	if perr != nil {
		return perr
	}
	dst.SetValue(value)
	return nil
}
