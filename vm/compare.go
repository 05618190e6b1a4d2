package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execCmp implements `cmp dst, src`: computes dst-src for flags only, the
// operands themselves are left untouched.
func (vm *VM) execCmp(pos token.Position) *vmerror.Error {
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
	vm.Flags.applySub(dst.GetValue(), src.GetValue(), dst.Size)
	return nil
}
