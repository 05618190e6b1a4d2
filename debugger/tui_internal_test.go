package debugger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TaichiLi/asm-vm/vm"
)

// TestExecuteCommandWritesOutput exercises the unexported executeCommand
// path the TUI wires to both the command input and the function-key
// shortcuts, verifying it surfaces command output through the output view.
func TestExecuteCommandWritesOutput(t *testing.T) {
	machine := vm.New(vm.StackBytes, vm.MemBytes, vm.DefaultMaxCycles)
	dbg := NewDebugger(machine)
	tui := NewTUI(dbg)

	tui.executeCommand("help")

	text := tui.OutputView.GetText(true)
	require.True(t, strings.Contains(text, "Execution Control"))
}

// TestExecuteCommandSurfacesErrors verifies an invalid command is reported
// through the output view rather than silently dropped.
func TestExecuteCommandSurfacesErrors(t *testing.T) {
	machine := vm.New(vm.StackBytes, vm.MemBytes, vm.DefaultMaxCycles)
	dbg := NewDebugger(machine)
	tui := NewTUI(dbg)

	tui.executeCommand("bogus-command")

	text := tui.OutputView.GetText(true)
	require.True(t, strings.Contains(text, "Error"))
}
