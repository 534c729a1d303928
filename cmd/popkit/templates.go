package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/layout"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available chrome templates",
	Long: `List chrome templates, bundled and user-provided.

User templates live in ~/.config/popkit/templates/ and shadow bundled
templates of the same name.`,
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	seen := make(map[string]bool)

	for _, name := range layout.ListEmbeddedTemplates() {
		seen[name] = true
		marker := ""
		if name == cfg.Chrome.Template {
			marker = " (active)"
		}
		fmt.Printf("%s\t[bundled]%s\n", name, marker)
	}

	entries, err := os.ReadDir(config.TemplatesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read templates dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".xml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".xml")
		if seen[name] {
			continue
		}
		marker := ""
		if name == cfg.Chrome.Template {
			marker = " (active)"
		}
		fmt.Printf("%s\t[user]%s\n", name, marker)
	}
	return nil
}
