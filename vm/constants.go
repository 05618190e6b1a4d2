package vm

// Architectural constants for the simulated 32-bit machine.
const (
	NumRegisters = 8

	// StackBytes and MemBytes are the reference sizes from the
	// specification: 1 MiB each, kept as separate byte-addressable arrays.
	StackBytes = 1 << 20
	MemBytes   = 1 << 20

	// DefaultMaxCycles guards against runaway programs (an unconditional
	// backward jump with a mistyped exit condition, say) the way a real
	// debugger's step budget would.
	DefaultMaxCycles = 10_000_000
)
