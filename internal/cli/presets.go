package cli

import (
	"github.com/spf13/cobra"
)

func newPresetsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the presets in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Printer.Presets(app.Catalog)
			return nil
		},
	}
}
