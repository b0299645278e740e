package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacklang/jackc/internal/config"
	"github.com/jacklang/jackc/internal/debugdump"
	"github.com/jacklang/jackc/internal/driver"
)

var (
	debugFlag       bool
	debugFormatFlag string
	configFlag      string
	colorFlag       string
)

var compileCmd = &cobra.Command{
	Use:   "compile <path>",
	Short: "Compile a .jack file or directory to VM code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func bindCompileFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&debugFlag, "debug", "d", false, "write a symbol-table trace to debug.txt")
	cmd.Flags().StringVar(&debugFormatFlag, "debug-format", "", "debug trace format: text or json (default text)")
	cmd.Flags().StringVar(&configFlag, "config", "jackc.yaml", "path to an optional jackc.yaml config file")
	cmd.Flags().StringVar(&colorFlag, "color", "", "colorize output: auto, always, or never (default auto)")
}

func init() {
	bindCompileFlags(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jackc: %v\n", err)
		os.Exit(driver.ExitUsage)
	}

	debugEnabled := cfg.Debug
	if cmd.Flags().Changed("debug") {
		debugEnabled = debugFlag
	}
	debugFormat := debugdump.Format(cfg.DebugFormat)
	if debugFormatFlag != "" {
		debugFormat = debugdump.Format(debugFormatFlag)
	}
	if debugFormat != debugdump.JSON {
		debugFormat = debugdump.Text
	}

	color := colorFlag
	if color == "" {
		color = cfg.Color
	}
	useColor := resolveColor(color)

	files, err := driver.CollectFiles(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "jackc: %v\n", err)
		os.Exit(driver.ExitOpenFailure)
	}

	exit := driver.CompileAll(files, driver.Options{
		DebugEnabled: debugEnabled,
		DebugFormat:  debugFormat,
		UseColor:     useColor,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})
	os.Exit(exit)
	return nil
}

func resolveColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return stderrIsTerminal()
	}
}
