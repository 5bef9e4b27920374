package cli

import (
	"github.com/spf13/cobra"

	"flypad/internal/catalog"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a preset catalog file",
		Long: `Parse and validate a catalog file. The format follows the extension:
.ini, .yaml/.yml, .toml, .json or .csv.

Example:
  flypad validate presets.ini`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipCatalog: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			app.Printer.Success("%s is valid: %d presets", args[0], cat.Len())
			return nil
		},
	}
}
