// Package cli provides the command-line interface for flypad.
//
// Commands are built on Cobra and share an [App] holding the loaded
// configuration, preset catalog, printer and logger. [NewRootCommand] wires
// the command tree; [Execute] is the entry point used by main.
//
// Available commands:
//   - load <preset>     - Run a preset against a simulated variable bus
//   - presets           - List the presets in the catalog
//   - steps <preset>    - Show how each step would be handled right now
//   - validate <file>   - Check a catalog file
//   - vars [state-file] - Show channel variables or a state file's contents
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flypad/internal/catalog"
	"flypad/internal/config"
	"flypad/internal/logging"
	"flypad/internal/output"
)

// skipCatalog marks commands that do not need the catalog loaded up front.
const skipCatalog = "skip-catalog"

// App holds the dependencies shared by all commands.
//
// Tests construct an App directly with a prepared catalog and a printer
// writing to a buffer.
type App struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Catalog is the preset catalog. When nil it is loaded from
	// Config.Catalog.Path before a command runs.
	Catalog *catalog.Catalog

	// Printer renders command output.
	Printer *output.Printer

	// Logger receives structured diagnostics. May be nil.
	Logger *logging.Logger

	// Interrupt, when non-nil, replaces the process interrupt signal for
	// the load command.
	Interrupt <-chan struct{}
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	var catalogPath string

	rootCmd := &cobra.Command{
		Use:   "flypad",
		Short: "Aircraft preset procedure runner",
		Long: `flypad runs aircraft state presets: ordered procedures that bring the
simulated aircraft from its current state into a target configuration,
skipping steps that are already satisfied and waiting for conditions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipCatalog] == "true" {
				return nil
			}
			if catalogPath != "" {
				app.Config.Catalog.Path = catalogPath
				app.Catalog = nil
			}
			if app.Catalog != nil {
				return nil
			}

			cat, err := catalog.LoadFile(app.Config.Catalog.Path)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}
			app.Catalog = cat
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "preset catalog file (default: built-in catalog)")

	rootCmd.AddCommand(
		newLoadCommand(app),
		newPresetsCommand(app),
		newStepsCommand(app),
		newValidateCommand(app),
		newVarsCommand(app),
	)

	return rootCmd
}

// ExecuteResult is the outcome of a CLI run.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig builds the application from cfg and runs the command line
// in os.Args.
func RunWithConfig(cfg *config.Config) ExecuteResult {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	defer logger.Close()

	app := &App{
		Config:  cfg,
		Printer: output.NewPrinter(),
		Logger:  logger,
	}

	rootCmd := NewRootCommand(app)
	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

// Execute loads configuration, runs the CLI and exits the process with the
// resulting code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := RunWithConfig(cfg)
	if result.Err != nil {
		if _, ok := IsExitError(result.Err); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		}
	}
	os.Exit(result.ExitCode)
}
