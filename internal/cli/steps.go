package cli

import (
	"github.com/spf13/cobra"

	"flypad/internal/engine"
)

func newStepsCommand(app *App) *cobra.Command {
	var stateIn string

	cmd := &cobra.Command{
		Use:   "steps <preset>",
		Short: "Show how each step of a preset would be handled",
		Long: `Evaluate every step of a preset against the current variables without
running any action. Action steps show "skip" or "apply", conditional steps
"pass" or "wait".

Example:
  flypad steps 3 --state-in parked.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := app.Catalog.Resolve(args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			bus, err := newBus(stateIn)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			gw, err := app.newGateway(bus)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			app.Printer.Plan(preset, engine.Plan(preset, gw))
			return nil
		},
	}

	cmd.Flags().StringVar(&stateIn, "state-in", "", "evaluate against a state file (.yaml or .msgpack)")

	return cmd
}
