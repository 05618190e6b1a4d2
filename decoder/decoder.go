package decoder

import (
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// Decoder reads operands at the current program counter, advancing it as
// tokens are consumed. It is handed the same backing arrays the execution
// engine owns (the register file and the flat memory segment) so that
// register and memory places read and write the live VM state directly.
type Decoder struct {
	Stream []token.Token
	EIP    *uint32
	Regs   []byte // 8 registers * 4 bytes
	Mem    []byte
}

// New builds a decoder over stream, sharing eip with the caller so that
// every operand consumed advances the engine's program counter.
func New(stream []token.Token, eip *uint32, regs, mem []byte) *Decoder {
	return &Decoder{Stream: stream, EIP: eip, Regs: regs, Mem: mem}
}

// Peek returns the token at the current program counter without consuming
// it, letting callers look ahead for an optional trailing operand (the
// three-operand form of imul, for instance).
func (d *Decoder) Peek() token.Token {
	return d.at()
}

func (d *Decoder) at() token.Token {
	if int(*d.EIP) >= len(d.Stream) {
		return token.NewEOF(token.Position{})
	}
	return d.Stream[*d.EIP]
}

func (d *Decoder) take() token.Token {
	tok := d.at()
	*d.EIP++
	return tok
}

func (d *Decoder) registerPlace(v token.Variant) Place {
	slot, offset, size, _ := v.RegisterInfo()
	return Place{Bytes: d.Regs, Offset: slot*4 + offset, Size: size}
}

// ExpectVariant consumes the current token and fails unless its variant
// matches want.
func (d *Decoder) ExpectVariant(want token.Variant) (token.Token, *vmerror.Error) {
	tok := d.take()
	if tok.Variant != want {
		return tok, vmerror.New(tok.Pos, vmerror.Parse, "expected %s, found %q", want, tok.Spelling)
	}
	return tok, nil
}

// ExpectKind consumes the current token and fails unless its kind matches want.
func (d *Decoder) ExpectKind(want token.Kind) (token.Token, *vmerror.Error) {
	tok := d.take()
	if tok.Kind != want {
		return tok, vmerror.New(tok.Pos, vmerror.Parse, "expected %s, found %q", want, tok.Spelling)
	}
	return tok, nil
}

// ParseSource parses whichever of the three operand forms (register,
// immediate, sized memory) appears at the current program counter.
func (d *Decoder) ParseSource() (Place, *vmerror.Error) {
	tok := d.at()
	switch {
	case tok.Kind == token.REGISTER:
		d.take()
		return d.registerPlace(tok.Variant), nil
	case tok.Kind == token.IMMEDIATE_DATA || tok.Variant == token.MINUS:
		return d.parseImmediate()
	case tok.Kind == token.KEYWORD && tok.Variant.KeywordSize() > 0:
		return d.parseMemory()
	default:
		return Place{}, vmerror.New(tok.Pos, vmerror.Parse, "expected an operand, found %q", tok.Spelling)
	}
}

// ParseDestination parses a destination-form operand: register or sized
// memory only, never an immediate.
func (d *Decoder) ParseDestination() (Place, *vmerror.Error) {
	tok := d.at()
	switch {
	case tok.Kind == token.REGISTER:
		d.take()
		return d.registerPlace(tok.Variant), nil
	case tok.Kind == token.KEYWORD && tok.Variant.KeywordSize() > 0:
		return d.parseMemory()
	default:
		return Place{}, vmerror.New(tok.Pos, vmerror.Parse, "expected a destination operand, found %q", tok.Spelling)
	}
}

// ParseRegister parses a bare register operand, used by the movzx/movsx
// and imul destinations.
func (d *Decoder) ParseRegister() (Place, *vmerror.Error) {
	tok := d.at()
	if tok.Kind != token.REGISTER {
		return Place{}, vmerror.New(tok.Pos, vmerror.Parse, "expected a register, found %q", tok.Spelling)
	}
	d.take()
	return d.registerPlace(tok.Variant), nil
}

// ParseDisplacement consumes the IMMEDIATE_DATA operand the preprocessor
// leaves after every branch or call mnemonic (a label rewritten to its
// resolved displacement) and returns it as a signed offset.
func (d *Decoder) ParseDisplacement() (int32, *vmerror.Error) {
	tok := d.at()
	if tok.Kind != token.IMMEDIATE_DATA {
		return 0, vmerror.New(tok.Pos, vmerror.Parse, "expected a resolved branch target, found %q", tok.Spelling)
	}
	d.take()
	return int32(tok.Value), nil
}

// ExpectComma consumes the COMMA that separates an instruction's operands.
func (d *Decoder) ExpectComma() *vmerror.Error {
	_, err := d.ExpectVariant(token.COMMA)
	return err
}

// parseImmediate parses an optional leading '-' followed by an integer
// literal and picks the smallest legal size (1, 2 or 4 bytes) that covers
// the resulting signed value, per §4.4.
func (d *Decoder) parseImmediate() (Place, *vmerror.Error) {
	negative := false
	signPos := d.at().Pos
	if d.at().Variant == token.MINUS {
		d.take()
		negative = true
	}

	lit := d.at()
	if lit.Kind != token.IMMEDIATE_DATA {
		return Place{}, vmerror.New(signPos, vmerror.Parse, "expected an integer literal")
	}
	d.take()

	var v int64
	if negative {
		v = -int64(lit.Value)
	} else {
		v = int64(lit.Value)
	}

	if v < -(1 << 31) || v > (1<<32)-1 {
		return Place{}, vmerror.New(lit.Pos, vmerror.Parse, "immediate %d is out of range", v)
	}

	size := immediateSize(v)
	return NewImmediatePlace(uint32(int32(v)), size), nil
}

// immediateSize picks the narrowest legal width for a signed value already
// known to fit in 32 bits: for v >= 0 the smallest unsigned range that
// covers it, for v < 0 the smallest signed range.
func immediateSize(v int64) int {
	if v >= 0 {
		switch {
		case v <= 0xFF:
			return 1
		case v <= 0xFFFF:
			return 2
		default:
			return 4
		}
	}
	switch {
	case v >= -128:
		return 1
	case v >= -32768:
		return 2
	default:
		return 4
	}
}

// parseMemory parses `SIZE PTR [ addr-expr ]`.
func (d *Decoder) parseMemory() (Place, *vmerror.Error) {
	sizeTok := d.take()
	size := sizeTok.Variant.KeywordSize()
	if size == 0 {
		return Place{}, vmerror.New(sizeTok.Pos, vmerror.Parse, "expected BYTE, WORD or DWORD, found %q", sizeTok.Spelling)
	}
	if _, err := d.ExpectVariant(token.PTR); err != nil {
		return Place{}, err
	}
	lb := d.at()
	if _, err := d.ExpectVariant(token.LBRACKET); err != nil {
		return Place{}, err
	}
	addr, err := d.parseAddressExpr()
	if err != nil {
		return Place{}, err
	}
	if _, err := d.ExpectVariant(token.RBRACKET); err != nil {
		return Place{}, err
	}

	if int64(addr)+int64(size) > int64(len(d.Mem)) {
		return Place{}, vmerror.New(lb.Pos, vmerror.Runtime, "memory address 0x%X is out of range", addr)
	}
	return Place{Bytes: d.Mem, Offset: int(addr), Size: size}, nil
}

// parseAddressExpr is a precedence-climbing parser over the '+', '-', '*'
// operators, evaluated in 32-bit unsigned wrap-around arithmetic.
func (d *Decoder) parseAddressExpr() (uint32, *vmerror.Error) {
	return d.parseExprPrec(0)
}

func (d *Decoder) parseExprPrec(minPrec int) (uint32, *vmerror.Error) {
	left, err := d.parseAddressAtom()
	if err != nil {
		return 0, err
	}

	for {
		tok := d.at()
		if tok.Kind != token.SYMBOL || tok.Precedence < 0 || tok.Precedence < minPrec {
			break
		}
		op := d.take()
		right, err := d.parseExprPrec(op.Precedence + 1)
		if err != nil {
			return 0, err
		}
		switch op.Variant {
		case token.PLUS:
			left = left + right
		case token.MINUS:
			left = left - right
		case token.STAR:
			left = left * right
		}
	}
	return left, nil
}

func (d *Decoder) parseAddressAtom() (uint32, *vmerror.Error) {
	tok := d.at()
	switch {
	case tok.Kind == token.REGISTER:
		d.take()
		return d.registerPlace(tok.Variant).GetValue(), nil
	case tok.Kind == token.IMMEDIATE_DATA:
		d.take()
		return tok.Value, nil
	case tok.Variant == token.MINUS:
		d.take()
		next := d.at()
		if next.Kind != token.IMMEDIATE_DATA {
			return 0, vmerror.New(next.Pos, vmerror.Parse, "expected an integer literal after unary '-'")
		}
		d.take()
		return uint32(-int32(next.Value)), nil
	default:
		return 0, vmerror.New(tok.Pos, vmerror.Parse, "expected a register or immediate in address expression, found %q", tok.Spelling)
	}
}
