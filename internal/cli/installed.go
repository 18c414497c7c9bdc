package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/instance"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
)

// installedCommand creates the installed command.
func (c *CLI) installedCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "installed",
		Short: "List resources recorded for an instance",
		Long: `List what the installed index records for a game instance.

Rows are grouped by resource kind. Entries pulled in by dependency
resolution are marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = c.Config.Instance.Dir
			}
			if dir == "" {
				return errors.New(errors.ErrCodeInvalidInstance,
					"no instance directory configured (set instance.dir in the config or pass --dir)")
			}

			store, err := instance.OpenStore(indexPath(dir))
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Installed(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("Nothing recorded for %s", dir)
				return nil
			}

			table := providers.DefaultTable()
			var kind mod.Kind
			for _, r := range records {
				if r.Kind != kind {
					kind = r.Kind
					fmt.Println(StyleTitle.Render(string(kind)))
				}
				suffix := ""
				if r.Indexed {
					suffix = StyleDim.Render("  " + iconRequired + " dependency")
				}
				fmt.Printf("  %-28s %-36s %s%s\n",
					StyleValue.Render(r.Name), StyleDim.Render(r.FileName),
					styleProvider.Render(table.DisplayName(r.Provider)), suffix)
			}
			printDetail("%d resource(s) in %s", len(records), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "instance directory (default from config)")

	return cmd
}
