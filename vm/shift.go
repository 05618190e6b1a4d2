package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execShl implements `shl dst, count`: logical left shift. CF is the last
// bit shifted out; OF is meaningful only when count == 1.
func (vm *VM) execShl(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	countPlace, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	count := countPlace.GetValue() & 0xFF
	if count == 0 {
		return nil
	}

	width := uint32(dst.Size * 8)
	original := dst.GetValue() & widthMask(dst.Size)

	var cf bool
	var result uint32
	if count <= width {
		cf = (original>>(width-count))&1 != 0
		result = (original << count) & widthMask(dst.Size)
	} else {
		cf = false
		result = 0
	}
	vm.Flags.CF = cf
	if count == 1 {
		rSign := result&signBit(dst.Size) != 0
		vm.Flags.OF = rSign != cf
	}
	vm.Flags.updateCommon(result, dst.Size)
	dst.SetValue(result)
	return nil
}

// execShr implements `shr dst, count`: logical right shift, zero-filled.
func (vm *VM) execShr(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	countPlace, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	count := countPlace.GetValue() & 0xFF
	if count == 0 {
		return nil
	}

	width := uint32(dst.Size * 8)
	original := dst.GetValue() & widthMask(dst.Size)

	var cf bool
	var result uint32
	if count <= width {
		cf = (original>>(count-1))&1 != 0
		result = original >> count
	} else {
		cf = false
		result = 0
	}
	vm.Flags.CF = cf
	if count == 1 {
		rSign := result&signBit(dst.Size) != 0
		vm.Flags.OF = rSign != cf
	}
	vm.Flags.updateCommon(result, dst.Size)
	dst.SetValue(result)
	return nil
}

// execSar implements `sar dst, count`: arithmetic right shift, sign-filled
// at the destination's own width.
func (vm *VM) execSar(pos token.Position) *vmerror.Error {
	dst, err := vm.decoder.ParseDestination()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if err := vm.decoder.ExpectComma(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	countPlace, err := vm.decoder.ParseSource()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	count := countPlace.GetValue() & 0xFF
	if count == 0 {
		return nil
	}

	width := uint32(dst.Size * 8)
	original := dst.GetValue() & widthMask(dst.Size)

	var cf bool
	if count <= width {
		cf = (original>>(count-1))&1 != 0
	} else {
		cf = (original>>(width-1))&1 != 0
	}

	signed := signExtend(original, dst.Size)
	shifted := signed >> count
	result := uint32(shifted) & widthMask(dst.Size)

	vm.Flags.CF = cf
	if count == 1 {
		rSign := result&signBit(dst.Size) != 0
		vm.Flags.OF = rSign != cf
	}
	vm.Flags.updateCommon(result, dst.Size)
	dst.SetValue(result)
	return nil
}
