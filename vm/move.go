package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execMov implements `mov dst, src`: copy src into dst unchanged, with no
// flag effects. Per §4.5.1, an immediate source may be narrower than dst
// (it zero-extends); any other source must match dst's size exactly.
func (vm *VM) execMov(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	srcTok := vm.decoder.Peek()
	immediate := srcTok.Kind == token.IMMEDIATE_DATA || srcTok.Variant == token.MINUS
	src, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if immediate {
		if dst.Size < src.Size {
			return vm.fail(pos, "mov: destination size %d is narrower than immediate size %d", dst.Size, src.Size)
		}
	} else if dst.Size != src.Size {
		return vm.fail(pos, "mov: operand size mismatch (dst=%d, src=%d)", dst.Size, src.Size)
	}
	dst.SetValue(src.GetValue())
	return nil
}

// execMovzx implements `movzx dst, src`: src is always read as its own
// width and the result zero-extended into the (wider) destination.
func (vm *VM) execMovzx(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseRegister()
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
	if dst.Size <= src.Size {
		return vm.fail(pos, "movzx: destination size %d must exceed source size %d", dst.Size, src.Size)
	}
	dst.SetValue(src.GetValue())
	return nil
}

// execMovsx implements `movsx dst, src`: src is read as its own width and
// sign-extended into the destination.
func (vm *VM) execMovsx(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseRegister()
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
	if dst.Size <= src.Size {
		return vm.fail(pos, "movsx: destination size %d must exceed source size %d", dst.Size, src.Size)
	}
	extended := uint32(signExtend(src.GetValue(), src.Size))
	dst.SetValue(extended)
	return nil
}
