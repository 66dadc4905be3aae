package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
)

var locationCmd = &cobra.Command{
	Use:   "location [lat] [lng]",
	Short: "Report a position and list nearby cards",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %w", args[0], err)
		}
		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %w", args[1], err)
		}

		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.UpdateLocationResponse, error) {
			return c.UpdateLocation(ctx, &v1alpha1.UpdateLocationRequest{
				Location: entities.Coordinate{Lat: lat, Lng: lng},
			})
		})
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect [card-id]",
	Short: "Collect a nearby card",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.CollectCardResponse, error) {
			return c.CollectCard(ctx, &v1alpha1.CollectCardRequest{CardID: args[0]})
		})
	},
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List owned items",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.ListInventoryResponse, error) {
			return c.ListInventory(ctx, &v1alpha1.ListInventoryRequest{})
		})
	},
}
