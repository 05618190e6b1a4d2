package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaichiLi/asm-vm/token"
)

func pos() token.Position { return token.Position{Filename: "t.asm", Line: 1, Column: 1} }

func TestRegisterAliasingWithinSharedBackingArray(t *testing.T) {
	regs := make([]byte, 32)
	eip := uint32(0)
	d := New(nil, &eip, regs, nil)

	eax := d.registerPlace(token.EAX)
	eax.SetValue(0x12345678)

	al := d.registerPlace(token.AL)
	ah := d.registerPlace(token.AH)
	ax := d.registerPlace(token.AX)

	assert.Equal(t, uint32(0x78), al.GetValue())
	assert.Equal(t, uint32(0x56), ah.GetValue())
	assert.Equal(t, uint32(0x5678), ax.GetValue())

	al.SetValue(0xFF)
	assert.Equal(t, uint32(0x123456FF), eax.GetValue(), "writing AL must not disturb bits 8-31")

	ah.SetValue(0x00)
	assert.Equal(t, uint32(0x123400FF), eax.GetValue(), "writing AH must not disturb bits 0-7 or 16-31")
}

func TestParseSourceRegisterAdvancesEIP(t *testing.T) {
	stream := []token.Token{token.New(token.REGISTER, token.EBX, pos(), "ebx")}
	eip := uint32(0)
	d := New(stream, &eip, make([]byte, 32), nil)

	place, err := d.ParseSource()
	require.Nil(t, err)
	assert.Equal(t, 4, place.Size)
	assert.Equal(t, uint32(1), eip)
}

func TestParseImmediateSizing(t *testing.T) {
	cases := []struct {
		stream []token.Token
		size   int
		value  uint32
	}{
		{[]token.Token{token.NewImmediate(pos(), "5", 5)}, 1, 5},
		{[]token.Token{token.NewImmediate(pos(), "300", 300)}, 2, 300},
		{[]token.Token{token.NewImmediate(pos(), "70000", 70000)}, 4, 70000},
		{[]token.Token{token.NewSymbol(token.MINUS, pos(), "-"), token.NewImmediate(pos(), "1", 1)}, 1, 0xFF},
	}
	for _, c := range cases {
		eip := uint32(0)
		d := New(c.stream, &eip, nil, nil)
		place, err := d.ParseSource()
		require.Nil(t, err)
		assert.Equal(t, c.size, place.Size)
		assert.Equal(t, c.value, place.GetValue())
	}
}

func TestParseMemoryAddressExpressionPrecedence(t *testing.T) {
	// dword ptr [eax + ebx * 4]
	stream := []token.Token{
		token.New(token.KEYWORD, token.DWORD, pos(), "dword"),
		token.New(token.KEYWORD, token.PTR, pos(), "ptr"),
		token.NewSymbol(token.LBRACKET, pos(), "["),
		token.New(token.REGISTER, token.EAX, pos(), "eax"),
		token.NewSymbol(token.PLUS, pos(), "+"),
		token.New(token.REGISTER, token.EBX, pos(), "ebx"),
		token.NewSymbol(token.STAR, pos(), "*"),
		token.NewImmediate(pos(), "4", 4),
		token.NewSymbol(token.RBRACKET, pos(), "]"),
	}
	regs := make([]byte, 32)
	mem := make([]byte, 64)
	eip := uint32(0)
	d := New(stream, &eip, regs, mem)

	eaxPlace := d.registerPlace(token.EAX)
	eaxPlace.SetValue(4)
	ebxPlace := d.registerPlace(token.EBX)
	ebxPlace.SetValue(2)

	place, err := d.ParseSource()
	require.Nil(t, err)
	// 4 + 2*4 = 12, not (4+2)*4 -- precedence must bind '*' tighter than '+'.
	assert.Equal(t, 12, place.Offset)
	assert.Equal(t, 9, int(eip))
}

func TestParseMemoryOutOfRangeIsFatal(t *testing.T) {
	stream := []token.Token{
		token.New(token.KEYWORD, token.BYTE, pos(), "byte"),
		token.New(token.KEYWORD, token.PTR, pos(), "ptr"),
		token.NewSymbol(token.LBRACKET, pos(), "["),
		token.NewImmediate(pos(), "100", 100),
		token.NewSymbol(token.RBRACKET, pos(), "]"),
	}
	eip := uint32(0)
	d := New(stream, &eip, make([]byte, 32), make([]byte, 16))
	_, err := d.ParseSource()
	require.NotNil(t, err)
}

func TestParseDestinationRejectsImmediate(t *testing.T) {
	stream := []token.Token{token.NewImmediate(pos(), "5", 5)}
	eip := uint32(0)
	d := New(stream, &eip, make([]byte, 32), nil)
	_, err := d.ParseDestination()
	require.NotNil(t, err)
}
