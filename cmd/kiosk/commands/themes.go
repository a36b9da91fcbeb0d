package commands

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-kiosk/core/themes"
)

var themesSeed uint64

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Print a generated theme set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := loadCatalog(cfg.Themes.Catalog)
		if err != nil {
			return err
		}

		seed := themesSeed
		if !cmd.Flags().Changed("seed") {
			seed = rand.Uint64()
		}

		set := themes.Generate(rand.New(rand.NewPCG(seed, seed)), catalog)
		for _, theme := range set {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s\n", theme.ID, theme.Color, theme.Question)
		}
		if verbose {
			style := themes.SelectSessionStyle(seed)
			fmt.Fprintf(cmd.OutOrStdout(), "style: assistant=%s user=%s colour=%s\n",
				style.AssistantIcon.Glyph(), style.UserIcon.Glyph(), style.UserColor)
		}
		return nil
	},
}

func init() {
	themesCmd.Flags().Uint64Var(&themesSeed, "seed", 0, "random seed for a reproducible set")
	rootCmd.AddCommand(themesCmd)
}

func loadCatalog(path string) (themes.Catalog, error) {
	if path == "" {
		return themes.DefaultCatalog(), nil
	}
	catalog, err := themes.LoadCatalog(path)
	if err != nil {
		return themes.Catalog{}, fmt.Errorf("load theme catalog: %w", err)
	}
	return catalog, nil
}
