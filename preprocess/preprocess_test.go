package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaichiLi/asm-vm/token"
)

func TestEntryPointDefaultsToZero(t *testing.T) {
	prog, err := Run("mov eax, 1\nint 0x80", "t.asm")
	require.Nil(t, err)
	assert.Equal(t, 0, prog.Entry)
}

func TestEntryPointLabelIsFound(t *testing.T) {
	prog, err := Run("mov eax, 0\nmain: mov eax, 1\nint 0x80", "t.asm")
	require.Nil(t, err)
	assert.Equal(t, prog.Labels["main"], prog.Entry)
}

func TestLastEntryLabelWins(t *testing.T) {
	// _start and main both qualify; whichever is declared last sets Entry.
	prog, err := Run("_start: mov eax, 0\nmain: mov eax, 1\nint 0x80", "t.asm")
	require.Nil(t, err)
	assert.Equal(t, prog.Labels["main"], prog.Entry)
}

func TestDisplacementLandsOnLabel(t *testing.T) {
	prog, err := Run("mov ecx, 5\nL: dec ecx\njne L\nint 0x80", "t.asm")
	require.Nil(t, err)

	// Find the jne instruction and its displacement operand.
	var site int
	for i, tok := range prog.Stream {
		if tok.Variant == token.JNE {
			site = i
			break
		}
	}
	disp := prog.Stream[site+1]
	require.Equal(t, token.IMMEDIATE_DATA, disp.Kind)

	// After consuming the instruction and its displacement, EIP == site+2;
	// adding the displacement must land exactly on the label's index.
	landedAt := int32(site+2) + int32(disp.Value)
	assert.Equal(t, int32(prog.Labels["L"]), landedAt)
}

func TestUndefinedLabelIsFatal(t *testing.T) {
	_, err := Run("jmp nowhere\nint 0x80", "t.asm")
	require.NotNil(t, err)
}

func TestBranchWithoutLabelOperandIsFatal(t *testing.T) {
	_, err := Run("jmp 5\nint 0x80", "t.asm")
	require.NotNil(t, err)
}
