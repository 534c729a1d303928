package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/popkit/popkit/internal/dbus"
)

var listOpts struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open popups",
	Long: `List the popups currently on screen, oldest first.

Examples:
  popkit list
  popkit list --format json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.format, "format", "text",
		"Output format: text, json, yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	items, err := client.ListPopups()
	if err != nil {
		return err
	}

	switch listOpts.format {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(data))
	case "text":
		if len(items) == 0 {
			fmt.Println("no open popups")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tOPENED")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				item.ID, item.Title, humanize.Time(item.OpenedAt()))
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format: %s", listOpts.format)
	}
	return nil
}
