package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popkit/popkit/internal/dbus"
)

var closeOpts struct {
	all bool
}

var closeCmd = &cobra.Command{
	Use:   "close [id]",
	Short: "Close a popup on the running daemon",
	Long: `Close an open popup by ID, or all popups with --all.

Examples:
  popkit close 01J5WXYZ3G8F2M9QK4T7R6VBND
  popkit close --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)

	closeCmd.Flags().BoolVar(&closeOpts.all, "all", false,
		"Close every open popup")
}

func runClose(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if closeOpts.all {
		if len(args) > 0 {
			return fmt.Errorf("cannot combine an ID with --all")
		}
		return client.CloseAllPopups()
	}

	if len(args) == 0 {
		return fmt.Errorf("an ID is required unless --all is given")
	}

	closed, err := client.ClosePopup(args[0])
	if err != nil {
		return err
	}
	if !closed {
		return fmt.Errorf("no open popup with ID %s", args[0])
	}
	return nil
}
