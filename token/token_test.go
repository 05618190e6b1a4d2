package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	p := Position{Filename: "prog.asm", Line: 3, Column: 5}
	assert.Equal(t, "prog.asm:3:5:", p.String())
}

func TestNewSymbolPrecedence(t *testing.T) {
	pos := Position{Filename: "a.asm", Line: 1, Column: 1}

	star := NewSymbol(STAR, pos, "*")
	assert.Equal(t, 20, star.Precedence)

	plus := NewSymbol(PLUS, pos, "+")
	assert.Equal(t, 10, plus.Precedence)

	minus := NewSymbol(MINUS, pos, "-")
	assert.Equal(t, 10, minus.Precedence)

	comma := NewSymbol(COMMA, pos, ",")
	assert.Equal(t, -1, comma.Precedence)
}

func TestNewImmediateCarriesValue(t *testing.T) {
	pos := Position{Filename: "a.asm", Line: 1, Column: 1}
	tok := NewImmediate(pos, "0xFF", 0xFF)
	assert.Equal(t, IMMEDIATE_DATA, tok.Kind)
	assert.Equal(t, INTEGER_LITERAL, tok.Variant)
	assert.Equal(t, uint32(0xFF), tok.Value)
}

func TestIsBranchOrCall(t *testing.T) {
	pos := Position{Filename: "a.asm", Line: 1, Column: 1}
	assert.True(t, New(INSTRUCTION, JE, pos, "je").IsBranchOrCall())
	assert.True(t, New(INSTRUCTION, CALL, pos, "call").IsBranchOrCall())
	assert.False(t, New(INSTRUCTION, MOV, pos, "mov").IsBranchOrCall())
}

func TestRegisterSize(t *testing.T) {
	assert.Equal(t, 4, EAX.RegisterSize())
	assert.Equal(t, 2, AX.RegisterSize())
	assert.Equal(t, 1, AH.RegisterSize())
	assert.Equal(t, 0, MOV.RegisterSize())
}

func TestKeywordSize(t *testing.T) {
	assert.Equal(t, 1, BYTE.KeywordSize())
	assert.Equal(t, 2, WORD.KeywordSize())
	assert.Equal(t, 4, DWORD.KeywordSize())
}
