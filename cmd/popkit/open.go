package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popkit/popkit/internal/dbus"
)

var openOpts struct {
	icon string
}

var openCmd = &cobra.Command{
	Use:   "open <title> [body]",
	Short: "Open a popup on the running daemon",
	Long: `Open a popup via popkitd.

Examples:
  # Title only
  popkit open "Build finished"

  # Title and body
  popkit open "Build finished" "all 213 tests passed"

  # With an icon name
  popkit open "Disk almost full" "/home is at 92%" --icon drive-harddisk`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVar(&openOpts.icon, "icon", "",
		"Icon name or path shown in the popup chrome")
}

func runOpen(cmd *cobra.Command, args []string) error {
	title := args[0]
	body := ""
	if len(args) > 1 {
		body = args[1]
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	id, err := client.OpenPopup(title, body, openOpts.icon)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}
