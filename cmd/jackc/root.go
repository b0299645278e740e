package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version information, set by build flags in the style of go-dws's
// cmd/dwscript/cmd root command.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jackc [path]",
	Short: "Compile Jack source to stack-machine VM code",
	Long: `jackc is a single-pass compiler front end for the Jack language.

Given a .jack file or a directory of .jack files, it emits one .vm
file per source file in the same directory, using the same recursive
descent engine as the "jackc compile" subcommand — running jackc with
a bare path is shorthand for "jackc compile <path>".`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cmd.Usage()
			return fmt.Errorf("usage: %s <path> [-d]", cmd.Name())
		}
		return runCompile(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("jackc version %%s\nCommit: %s\n", GitCommit))
	bindCompileFlags(rootCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
