package debugger

import (
	"strings"

	"github.com/TaichiLi/asm-vm/decoder"
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vm"
)

// registerVariants maps the lowercase spelling the expression lexer accepts
// to the token variant the decoder already knows how to place, so the
// debugger never duplicates the register-aliasing table.
var registerVariants = map[string]token.Variant{
	"eax": token.EAX, "ebx": token.EBX, "ecx": token.ECX, "edx": token.EDX,
	"esi": token.ESI, "edi": token.EDI, "esp": token.ESP, "ebp": token.EBP,
	"ax": token.AX, "bx": token.BX, "cx": token.CX, "dx": token.DX,
	"si": token.SI, "di": token.DI, "sp": token.SP, "bp": token.BP,
	"al": token.AL, "bl": token.BL, "cl": token.CL, "dl": token.DL,
	"ah": token.AH, "bh": token.BH, "ch": token.CH, "dh": token.DH,
}

// registerSlot resolves a register name to its (slot, offset, size) triple.
func registerSlot(name string) (slot, offset, size int, ok bool) {
	variant, known := registerVariants[strings.ToLower(name)]
	if !known {
		return 0, 0, 0, false
	}
	return variant.RegisterInfo()
}

// registerPlace builds the decoder place for a register name against a live
// machine, used by the expression evaluator and by print/set commands.
func registerPlace(machine *vm.VM, name string) (decoder.Place, bool) {
	slot, offset, size, ok := registerSlot(name)
	if !ok {
		return decoder.Place{}, false
	}
	return decoder.Place{Bytes: machine.Regs.Bytes(), Offset: slot*4 + offset, Size: size}, true
}
