package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/popkit/popkit/internal/dump"
	"github.com/popkit/popkit/internal/tui"
	"github.com/popkit/popkit/internal/widget"
	"github.com/popkit/popkit/internal/windowing"
)

var inspectOpts struct {
	format string
	tui    bool
	count  int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump a sample element tree",
	Long: `Build a headless popup scene and dump its element tree.

This shows the logical/visual structure popkitd creates for each popup:
the popup, its presentation root, the templated content presenter, and
the hosted content.

Examples:
  popkit inspect
  popkit inspect --format json
  popkit inspect --tui`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectOpts.format, "format", "text",
		"Output format: text, json, yaml")
	inspectCmd.Flags().BoolVar(&inspectOpts.tui, "tui", false,
		"Browse the tree interactively")
	inspectCmd.Flags().IntVar(&inspectOpts.count, "count", 1,
		"Number of sample popups in the scene")
}

func runInspect(cmd *cobra.Command, args []string) error {
	manager := widget.NewManager(windowing.NewHeadless(), widget.NewDefaultResolver(),
		cfg, nil, logger)

	for i := 0; i < inspectOpts.count; i++ {
		title := fmt.Sprintf("sample popup %d", i+1)
		if _, err := manager.Open(title, "inspect sample body", ""); err != nil {
			return err
		}
	}

	if inspectOpts.tui {
		snapshot := func() dump.Snapshot { return dump.Capture(manager.Scene()) }
		p := tea.NewProgram(tui.New(snapshot(), snapshot), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	out, err := dump.Encode(dump.Capture(manager.Scene()), dump.Format(inspectOpts.format))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
