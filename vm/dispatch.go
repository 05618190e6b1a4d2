package vm

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// Run executes instructions from the current EIP until the machine halts,
// the call depth reaches zero, the cycle budget is exhausted, or a fatal
// error occurs.
func (vm *VM) Run() *vmerror.Error {
	for !vm.Halted {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return vm.LastErr
}

// Step executes exactly one instruction, or skips exactly one label
// definition -- the preprocessor leaves every (LABEL, COLON) pair in
// place in the stream (its table only records the LABEL token's index),
// so landing on one, whether by fall-through or as a jump/call/entry
// target, advances EIP past both tokens without consuming a cycle.
func (vm *VM) Step() *vmerror.Error {
	if vm.Halted {
		return vm.LastErr
	}
	if vm.Cycles >= vm.MaxCycles {
		return vm.fail(vm.posAt(vm.EIP), "exceeded maximum cycle budget (%d)", vm.MaxCycles)
	}
	if int(vm.EIP) >= len(vm.Stream) {
		vm.Halted = true
		return nil
	}

	tok := vm.Stream[vm.EIP]
	if tok.Kind == token.LABEL {
		vm.EIP += 2
		return nil
	}
	if tok.Kind != token.INSTRUCTION {
		return vm.fail(tok.Pos, "expected an instruction, found %s", tok.Kind)
	}
	pos := tok.Pos
	vm.EIP++
	vm.Cycles++

	var err *vmerror.Error
	switch tok.Variant {
	case token.MOV:
		err = vm.execMov(pos)
	case token.MOVZX:
		err = vm.execMovzx(pos)
	case token.MOVSX:
		err = vm.execMovsx(pos)
	case token.ADD:
		err = vm.execAdd(pos)
	case token.SUB:
		err = vm.execSub(pos)
	case token.AND:
		err = vm.execAnd(pos)
	case token.OR:
		err = vm.execOr(pos)
	case token.XOR:
		err = vm.execXor(pos)
	case token.MUL:
		err = vm.execMul(pos)
	case token.IMUL:
		err = vm.execImul(pos)
	case token.DIV:
		err = vm.execDiv(pos)
	case token.IDIV:
		err = vm.execIdiv(pos)
	case token.INC:
		err = vm.execInc(pos)
	case token.DEC:
		err = vm.execDec(pos)
	case token.NOT:
		err = vm.execNot(pos)
	case token.NEG:
		err = vm.execNeg(pos)
	case token.SHL:
		err = vm.execShl(pos)
	case token.SHR:
		err = vm.execShr(pos)
	case token.SAR:
		err = vm.execSar(pos)
	case token.CMP:
		err = vm.execCmp(pos)
	case token.PUSH:
		err = vm.execPush(pos)
	case token.POP:
		err = vm.execPop(pos)
	case token.JMP:
		err = vm.execJmp(pos)
	case token.JE, token.JNE, token.JG, token.JGE, token.JL, token.JLE, token.JA, token.JAE, token.JB, token.JBE:
		err = vm.execJcc(pos, tok.Variant)
	case token.CALL:
		err = vm.execCall(pos)
	case token.RET:
		err = vm.execRet(pos)
	case token.ENTER:
		err = vm.execEnter(pos)
	case token.LEAVE:
		err = vm.execLeave(pos)
	case token.INT:
		err = vm.execInt(pos)
	default:
		err = vm.fail(pos, "unimplemented instruction %s", tok.Variant)
	}
	return err
}

// conditionHolds evaluates the Jcc truth table from the current flags.
func (vm *VM) conditionHolds(variant token.Variant) bool {
	f := vm.Flags
	switch variant {
	case token.JE:
		return f.ZF
	case token.JNE:
		return !f.ZF
	case token.JG:
		return !f.ZF && f.SF == f.OF
	case token.JGE:
		return f.SF == f.OF
	case token.JL:
		return f.SF != f.OF
	case token.JLE:
		return f.ZF || f.SF != f.OF
	case token.JA:
		return !f.CF && !f.ZF
	case token.JAE:
		return !f.CF
	case token.JB:
		return f.CF
	case token.JBE:
		return f.CF || f.ZF
	default:
		return false
	}
}
