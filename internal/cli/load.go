package cli

import (
	"github.com/spf13/cobra"

	"flypad/internal/engine"
)

func newLoadCommand(app *App) *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "load <preset>",
		Short: "Run a preset",
		Long: `Run a preset against a simulated variable bus.

The preset is requested through the request variable exactly as a flyPad
client would. Steps whose expected state already holds are skipped; actions
are followed by their settle delay and conditions are polled every frame.

Press Ctrl-C to cancel the running sequence.

Examples:
  flypad load 1
  flypad load "ready for taxi" --state-in cold.yaml --state-out taxi.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := app.Catalog.Resolve(args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			if !cmd.Flags().Changed("timeout") {
				opts.timeout = app.Config.Engine.SequenceTimeout
			}
			if !cmd.Flags().Changed("realtime") {
				opts.realtime = app.Config.Sim.Realtime
			}

			final, err := app.load(cmd.Context(), preset, opts)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			switch {
			case final.Kind == engine.EventCompleted:
				return nil
			case final.Kind == engine.EventAborted && final.Reason == engine.ReasonUserCancelled:
				return NewExitError(130)
			default:
				return NewExitError(1)
			}
		},
	}

	cmd.Flags().StringVar(&opts.stateIn, "state-in", "", "seed variables from a state file (.yaml or .msgpack)")
	cmd.Flags().StringVar(&opts.stateOut, "state-out", "", "write the final variables to a state file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort when a condition stays unmet this long (0 disables)")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "pace frames to the wall clock")

	return cmd
}
