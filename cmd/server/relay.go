package main

import (
	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/internal/relay"
)

var (
	relayPort     int
	relayAttempts int
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Start the WebSocket relay",
	Long: `Start the stateless WebSocket relay. Every message a peer sends is
forwarded to every other peer. When the port is taken the next one is tried.`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().IntVar(&relayPort, "port", 0, "first port to try (overrides RELAY_PORT)")
	relayCmd.Flags().IntVar(&relayAttempts, "attempts", 0, "ports to try (overrides RELAY_PORT_ATTEMPTS)")
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if relayPort != 0 {
		cfg.RelayPort = relayPort
	}
	if relayAttempts != 0 {
		cfg.RelayPortAttempts = relayAttempts
	}

	ctx, cancel := signalContext()
	defer cancel()

	lis, err := relay.Listen(cfg.RelayPort, cfg.RelayPortAttempts)
	if err != nil {
		return err
	}

	return relay.Serve(ctx, lis, relay.NewHub(nil))
}
