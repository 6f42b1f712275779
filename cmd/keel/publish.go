package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var publishName string

var publishCmd = &cobra.Command{
	Use:   "publish <path>",
	Short: "Publish a wasm module to the runtime registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		name := publishName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".wasm")
		}

		module, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		res, err := runtimeClient.Publish(cmd.Context(), name, module)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}

		fmt.Printf("published %s v%d (%d bytes)\n", name, res.Version, len(module))
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishName, "name", "", "category name (default: file stem)")
}
