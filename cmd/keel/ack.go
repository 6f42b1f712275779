package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ackCmd = &cobra.Command{
	Use:   "ack <name> <global_id>",
	Short: "Acknowledge events up to a global id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		globalID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid global id %q: %w", args[1], err)
		}

		if err := runtimeClient.Acknowledge(cmd.Context(), name, globalID); err != nil {
			return err
		}
		fmt.Printf("acknowledged %s at %d\n", name, globalID)
		return nil
	},
}
