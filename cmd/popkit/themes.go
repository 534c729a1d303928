package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List CSS themes, bundled and user-provided.

User themes live in ~/.config/popkit/themes/ and shadow bundled themes
of the same name.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.ListAvailable(config.ThemesDir())
	if err != nil {
		return err
	}

	for _, info := range themes {
		origin := "[user]"
		if info.IsBundled {
			origin = "[bundled]"
		}
		marker := ""
		if info.Name == cfg.Theme.Name {
			marker = " (active)"
		}
		fmt.Printf("%s\t%s%s\n", info.Name, origin, marker)
	}
	return nil
}
