package main

import (
	"fmt"

	"github.com/emberline/keel/internal/idgen"
	"github.com/spf13/cobra"
)

var causationID string

var executeCmd = &cobra.Command{
	Use:   "execute <category> <id> <command> <payload>",
	Short: "Execute a command against an aggregate",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, id, command, payload := args[0], args[1], args[2], args[3]

		// Mint a fresh causation id when the caller did not supply one.
		// Each invocation mints a new id, so only re-runs that pass the
		// same --causation-id are deduplicated.
		cid := causationID
		if cid == "" {
			var err error
			cid, err = idgen.Generate()
			if err != nil {
				return err
			}
		}

		res, err := runtimeClient.Execute(cmd.Context(), category, id, command, payload, cid)
		if err != nil {
			return err
		}

		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		printExecuteResult(res)
		return nil
	},
}

func init() {
	executeCmd.Flags().StringVar(&causationID, "causation-id", "", "idempotency key for the command")
}
