package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
)

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Battle commands",
}

var opponentID string

var battleStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a battle",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.BattleResponse, error) {
			return c.StartBattle(ctx, &v1alpha1.StartBattleRequest{OpponentID: opponentID})
		})
	},
}

var battlePlayCmd = &cobra.Command{
	Use:   "play [hand-card-id] [position]",
	Short: "Play a hand card",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		position := 0
		if len(args) == 2 {
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[1], err)
			}
			position = p
		}

		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.PlayCardResponse, error) {
			return c.PlayCard(ctx, &v1alpha1.PlayCardRequest{HandCardID: args[0], Position: position})
		})
	},
}

var battleEndTurnCmd = &cobra.Command{
	Use:   "end-turn",
	Short: "Pass the turn",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.EndTurnResponse, error) {
			return c.EndTurn(ctx, &v1alpha1.EndTurnRequest{})
		})
	},
}

var battleSurrenderCmd = &cobra.Command{
	Use:   "surrender",
	Short: "Concede the battle",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.SurrenderResponse, error) {
			return c.Surrender(ctx, &v1alpha1.SurrenderRequest{})
		})
	},
}

var battleGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current battle",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.GetBattleResponse, error) {
			return c.GetBattle(ctx, &v1alpha1.GetBattleRequest{})
		})
	},
}

func init() {
	battleStartCmd.Flags().StringVar(&opponentID, "opponent", "", "opponent id (default bot)")

	battleCmd.AddCommand(battleStartCmd)
	battleCmd.AddCommand(battlePlayCmd)
	battleCmd.AddCommand(battleEndTurnCmd)
	battleCmd.AddCommand(battleSurrenderCmd)
	battleCmd.AddCommand(battleGetCmd)
}
