package scanner

import "github.com/TaichiLi/asm-vm/token"

// mnemonics maps a lower-cased instruction spelling to its canonical
// variant. Aliases (sal, jz, ...) are folded onto the canonical mnemonic
// here rather than carried as distinct variants.
var mnemonics = map[string]token.Variant{
	"mov": token.MOV, "movzx": token.MOVZX, "movsx": token.MOVSX,
	"add": token.ADD, "sub": token.SUB, "and": token.AND, "or": token.OR, "xor": token.XOR,
	"mul": token.MUL, "imul": token.IMUL, "div": token.DIV, "idiv": token.IDIV,
	"inc": token.INC, "dec": token.DEC, "not": token.NOT, "neg": token.NEG,
	"shl": token.SHL, "shr": token.SHR, "sar": token.SAR,
	"cmp": token.CMP, "push": token.PUSH, "pop": token.POP,
	"jmp": token.JMP, "je": token.JE, "jne": token.JNE,
	"jg": token.JG, "jge": token.JGE, "jl": token.JL, "jle": token.JLE,
	"ja": token.JA, "jae": token.JAE, "jb": token.JB, "jbe": token.JBE,
	"call": token.CALL, "ret": token.RET, "enter": token.ENTER, "leave": token.LEAVE,
	"int": token.INT,

	// Aliases fold onto the canonical mnemonic.
	"sal":  token.SHL,
	"jz":   token.JE,
	"jnz":  token.JNE,
	"jnle": token.JG,
	"jnl":  token.JGE,
	"jnge": token.JL,
	"jng":  token.JLE,
	"jnbe": token.JA,
	"jnb":  token.JAE,
	"jnae": token.JB,
	"jna":  token.JBE,
}

var registers = map[string]token.Variant{
	"eax": token.EAX, "ebx": token.EBX, "ecx": token.ECX, "edx": token.EDX,
	"esi": token.ESI, "edi": token.EDI, "esp": token.ESP, "ebp": token.EBP,
	"ax": token.AX, "bx": token.BX, "cx": token.CX, "dx": token.DX,
	"si": token.SI, "di": token.DI, "sp": token.SP, "bp": token.BP,
	"al": token.AL, "bl": token.BL, "cl": token.CL, "dl": token.DL,
	"ah": token.AH, "bh": token.BH, "ch": token.CH, "dh": token.DH,
}

var keywords = map[string]token.Variant{
	"ptr": token.PTR, "byte": token.BYTE, "word": token.WORD, "dword": token.DWORD,
}

// lookupIdentifier resolves a lower-cased identifier spelling against the
// three keyword dictionaries, in the order the scanner's lexical rules
// specify: instructions, then registers, then the PTR/size keywords.
// Unknown identifiers are left for the caller to turn into a LABEL token.
func lookupIdentifier(lower string) (token.Kind, token.Variant, bool) {
	if v, ok := mnemonics[lower]; ok {
		return token.INSTRUCTION, v, true
	}
	if v, ok := registers[lower]; ok {
		return token.REGISTER, v, true
	}
	if v, ok := keywords[lower]; ok {
		return token.KEYWORD, v, true
	}
	return token.UNKNOWN, token.UNKNOWN_VARIANT, false
}
