// Package main is the entry point for the geocards server, relay and client
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "geocards-api",
	Short: "Geocards game server",
	Long: `Geocards serves a location-based collectible card game over gRPC:
accounts, card collection on the map, turn-based battles, chat and guilds.
The relay command runs the standalone WebSocket fan-out.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
