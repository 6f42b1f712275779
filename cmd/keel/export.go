package main

import (
	"os"
	"path/filepath"

	"github.com/emberline/keel/internal/archive"
	"github.com/emberline/keel/internal/messagestore/sqlite"
	"github.com/spf13/cobra"
)

var exportDataDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the local event log as JSONL to stdout",
	// Offline command: operates on the data dir directly, no gRPC client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.Open(filepath.Join(exportDataDir, "store.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		return archive.ExportJSONL(cmd.Context(), store, os.Stdout)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataDir, "data-dir", "./data", "runtime data directory")
}
