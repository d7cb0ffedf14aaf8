// Package main is the entry point for the skywar battle server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skywar-api",
	Short: "Skywar battle room gRPC server",
	Long:  `Skywar API runs hidden-formation aircraft battles: matchmaking, turn resolution and outcome hand-off.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (SKYWAR_* env vars override it)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(sweeperCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
