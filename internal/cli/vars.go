package cli

import (
	"github.com/spf13/cobra"

	"flypad/internal/simvar"
	"flypad/internal/statefile"
)

func newVarsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vars [state-file]",
		Short: "Show channel variables or the contents of a state file",
		Long: `Without arguments, list the variables used to request presets and report
progress. With a state file, list the variables it holds.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipCatalog: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				app.Printer.Channel(app.Config.Variables)
				return nil
			}

			st, err := statefile.Read(args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			bus := simvar.NewBus()
			bus.Load(st.Variables)
			app.Printer.Variables(bus.Names(), bus.Snapshot())
			return nil
		},
	}
}
