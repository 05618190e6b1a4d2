package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaichiLi/asm-vm/config"
	"github.com/TaichiLi/asm-vm/debugger"
	"github.com/TaichiLi/asm-vm/preprocess"
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "asm-vm <source_file> [token_dump_path]",
		Short:         "Interpret a small x86-32 instruction subset",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadFrom(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, cfg, args)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.GetConfigPath(), "path to config.toml")

	root.AddCommand(newDebugCmd(&cfg))
	root.AddCommand(newConfigCmd(&cfg))

	return root
}

// runProgram implements the reference invocation: preprocess the source,
// run it to completion, and dump the resolved token stream alongside the
// post-run EAX value.
func runProgram(cmd *cobra.Command, cfg *config.Config, args []string) error {
	source := args[0]
	dumpPath := "./TokenOut.txt"
	if len(args) == 2 {
		dumpPath = args[1]
	}

	input, err := os.ReadFile(source) // #nosec G304 -- user-specified source file
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	program, perr := preprocess.Run(string(input), source)
	if perr != nil {
		return fmt.Errorf("%s", perr.Error())
	}

	machine := vm.New(cfg.Execution.StackBytes, cfg.Execution.MemoryBytes, cfg.Execution.MaxCycles)
	machine.Load(program.Stream, program.Entry)

	if rerr := machine.Run(); rerr != nil {
		return fmt.Errorf("%s", rerr.Error())
	}

	if err := dumpTokens(dumpPath, program.Stream); err != nil {
		return fmt.Errorf("writing token dump: %w", err)
	}

	fmt.Printf("eax: %d\n", machine.EAX())
	return nil
}

// dumpTokens writes one line per token in the resolved stream, matching
// the reference harness's "<file>:<line>:<col>: Token Type: <type>,
// Token Value: <spelling>" layout.
func dumpTokens(path string, stream []token.Token) error {
	f, err := os.Create(path) // #nosec G304 -- user-specified output path
	if err != nil {
		return err
	}
	defer f.Close()

	for _, tok := range stream {
		if _, err := fmt.Fprintln(f, tok.String()); err != nil {
			return err
		}
	}
	return nil
}

func newDebugCmd(cfg **config.Config) *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "debug <source_file>",
		Short: "Load a program under the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			source := args[0]

			input, err := os.ReadFile(source) // #nosec G304 -- user-specified source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", source, err)
			}

			program, perr := preprocess.Run(string(input), source)
			if perr != nil {
				return fmt.Errorf("%s", perr.Error())
			}

			machine := vm.New(c.Execution.StackBytes, c.Execution.MemoryBytes, c.Execution.MaxCycles)
			machine.Load(program.Stream, program.Entry)

			dbg := debugger.NewDebugger(machine)
			dbg.LoadSymbols(labelsToUint32(program.Labels))

			if useTUI {
				return debugger.RunTUI(dbg)
			}
			return debugger.RunCLI(dbg)
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "use the full-screen TUI debugger instead of the line-oriented one")
	return cmd
}

// labelsToUint32 widens the preprocessor's int-indexed label table to the
// uint32 address space the debugger's symbol table and expression
// evaluator expect.
func labelsToUint32(labels map[string]int) map[string]uint32 {
	out := make(map[string]uint32, len(labels))
	for name, idx := range labels {
		out[name] = uint32(idx)
	}
	return out
}

func newConfigCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the persisted configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			fmt.Printf("max_cycles     = %d\n", c.Execution.MaxCycles)
			fmt.Printf("stack_bytes    = %d\n", c.Execution.StackBytes)
			fmt.Printf("memory_bytes   = %d\n", c.Execution.MemoryBytes)
			fmt.Printf("default_entry  = %s\n", c.Execution.DefaultEntry)
			fmt.Printf("history_size   = %d\n", c.Debugger.HistorySize)
			fmt.Printf("color_output   = %v\n", c.Display.ColorOutput)
			fmt.Printf("number_format  = %s\n", c.Display.NumberFormat)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cmd.Flag("config").Value.String()
			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
