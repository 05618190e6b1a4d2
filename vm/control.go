package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// execJmp implements unconditional `jmp`: the preprocessor has already
// rewritten the label operand to a resolved displacement relative to the
// instruction pointer just past that operand.
func (vm *VM) execJmp(pos token.Position) *vmerror.Error {
	disp, err := vm.decoder.ParseDisplacement()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	vm.EIP = uint32(int32(vm.EIP) + disp)
	return nil
}

// execJcc implements the conditional jumps; the branch is taken only when
// the flags satisfy variant's condition.
func (vm *VM) execJcc(pos token.Position, variant token.Variant) *vmerror.Error {
	disp, err := vm.decoder.ParseDisplacement()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	if vm.conditionHolds(variant) {
		vm.EIP = uint32(int32(vm.EIP) + disp)
	}
	return nil
}

// execCall implements `call`: pushes the return address (the instruction
// pointer just past the operand) and jumps, one level deeper.
func (vm *VM) execCall(pos token.Position) *vmerror.Error {
	disp, err := vm.decoder.ParseDisplacement()
	if err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	returnAddr := vm.EIP
	if perr := vm.pushBytes(pos, returnAddr, 4); perr != nil {
		return perr
	}
	vm.CallDepth++
	vm.EIP = uint32(int32(vm.EIP) + disp)
	return nil
}

// execRet implements `ret`: pops the return address into EIP and leaves
// one call level. Reaching call depth zero halts the machine -- the entry
// routine has returned.
func (vm *VM) execRet(pos token.Position) *vmerror.Error {
	addr, err := vm.popBytes(pos, 4)
	if err != nil {
		return err
	}
	vm.EIP = addr
	vm.CallDepth--
	if vm.CallDepth == 0 {
		vm.Halted = true
	}
	return nil
}

// execEnter implements `enter`: the standard prologue, push EBP then make
// EBP the new frame base.
func (vm *VM) execEnter(pos token.Position) *vmerror.Error {
	if err := vm.pushBytes(pos, vm.Regs.Get(slotEBP), 4); err != nil {
		return err
	}
	vm.Regs.Set(slotEBP, vm.Regs.Get(slotESP))
	return nil
}

// execLeave implements `leave`: the standard epilogue, tear down the
// current frame and restore the caller's EBP.
func (vm *VM) execLeave(pos token.Position) *vmerror.Error {
	vm.Regs.Set(slotESP, vm.Regs.Get(slotEBP))
	ebp, err := vm.popBytes(pos, 4)
	if err != nil {
		return err
	}
	vm.Regs.Set(slotEBP, ebp)
	return nil
}

// execInt implements `int <imm>`: an immediate, unconditional halt
// regardless of the operand -- there is no syscall table in this machine.
func (vm *VM) execInt(pos token.Position) *vmerror.Error {
	// Consume whatever operand form follows so the stream stays aligned,
	// then halt unconditionally.
	if _, err := vm.decoder.ParseSource(); err != nil {
		return vm.fail(pos, "%s", err.Message)
	}
	vm.Halted = true
	return nil
}
