// Package client provides commands that call a running geocards server
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	token      string
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the geocards server",
	Long: `Client commands call the GameService over gRPC and print the JSON
response. Commands that act as a player need --token (or GEOCARDS_TOKEN);
register and login print one.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GEOCARDS_TOKEN"), "bearer token")

	// Account commands
	ClientCmd.AddCommand(registerCmd)
	ClientCmd.AddCommand(loginCmd)
	ClientCmd.AddCommand(logoutCmd)

	// Card commands
	ClientCmd.AddCommand(locationCmd)
	ClientCmd.AddCommand(collectCmd)
	ClientCmd.AddCommand(inventoryCmd)

	// Battle, chat and guild command groups
	ClientCmd.AddCommand(battleCmd)
	ClientCmd.AddCommand(chatCmd)
	ClientCmd.AddCommand(guildCmd)
}

// createClient creates a GameService client
func createClient() (*v1alpha1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewClient(conn), cleanup, nil
}

// call runs fn with a connected client and a timeout context carrying the
// token, then prints the response
func call[Resp any](fn func(ctx context.Context, c *v1alpha1.Client) (*Resp, error)) error {
	c, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := fn(v1alpha1.WithToken(ctx, token), c)
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
