package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		provider string
		noCache  bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <kind> <query>",
		Short: "Search a provider for packs",
		Long: `Search a content provider for packs of a resource kind.

Kinds: mod, resourcepack, texturepack, shaderpack.

Examples:
  modsmith search mod sodium
  modsmith search shaderpack "complementary" --provider modrinth
  modsmith search resourcepack faithful --provider flame`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			kind, err := mod.ParseKind(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidKind, err, "invalid kind %q", args[0])
			}
			query := strings.Join(args[1:], " ")

			pid := mod.Provider(provider)
			table := providers.DefaultTable()
			if !table.Supports(pid, kind) {
				return errors.New(errors.ErrCodeUnsupported, "%s does not serve %s content", table.DisplayName(pid), kind)
			}

			mux, _, err := c.newMux(noCache)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			packs, err := mux.Search(cmd.Context(), pid, kind, query)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Found %d packs on %s", len(packs), table.DisplayName(pid)))

			if len(packs) == 0 {
				printInfo("No results for %q", query)
				return nil
			}

			if limit > 0 && len(packs) > limit {
				packs = packs[:limit]
			}
			printPacks(packs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", string(providers.Modrinth), "content provider (modrinth, flame)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (0 = provider default)")

	return cmd
}

func printPacks(packs []mod.Pack) {
	for _, p := range packs {
		header := StyleHighlight.Render(p.Name)
		if p.Slug != "" {
			header += StyleDim.Render("  (" + p.Slug + ")")
		}
		fmt.Println(header + StyleDim.Render("  ↓"+formatDownloads(p.Downloads)))
		if p.Description != "" {
			printDetail("%s", truncate(p.Description, 100))
		}
		if len(p.Authors) > 0 {
			printDetail("by %s", strings.Join(p.Authors, ", "))
		}
	}
}
