package main

import (
	"fmt"
	"os"

	"github.com/emberline/keel/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	jsonOutput bool

	runtimeClient client.RuntimeClient
)

func defaultServer() string {
	if s := os.Getenv("KEEL_SERVER"); s != "" {
		return s
	}
	return "localhost:9090"
}

var rootCmd = &cobra.Command{
	Use:   "keel <command>",
	Short: "WebAssembly event-sourcing runtime",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.NewGRPCClient(serverAddr)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", serverAddr, err)
		}
		runtimeClient = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if runtimeClient != nil {
			return runtimeClient.Close()
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "runtime gRPC address")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
