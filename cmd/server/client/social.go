package client

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
)

var (
	chatChannel      string
	chatLimit        int
	guildDescription string
	guildPrivate     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat commands",
}

var chatSendCmd = &cobra.Command{
	Use:   "send [text...]",
	Short: "Send a chat message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.SendMessageResponse, error) {
			return c.SendMessage(ctx, &v1alpha1.SendMessageRequest{
				Channel: chatChannel,
				Text:    strings.Join(args, " "),
			})
		})
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent chat messages",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.ListMessagesResponse, error) {
			return c.ListMessages(ctx, &v1alpha1.ListMessagesRequest{Channel: chatChannel, Limit: chatLimit})
		})
	},
}

var guildCmd = &cobra.Command{
	Use:   "guild",
	Short: "Guild commands",
}

var guildCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Found a guild",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		guildType := entities.GuildPublic
		if guildPrivate {
			guildType = entities.GuildPrivate
		}

		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.GuildResponse, error) {
			return c.CreateGuild(ctx, &v1alpha1.CreateGuildRequest{
				Name:        args[0],
				Description: guildDescription,
				Type:        guildType,
			})
		})
	},
}

var guildJoinCmd = &cobra.Command{
	Use:   "join [guild-id]",
	Short: "Join a public guild",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.GuildResponse, error) {
			return c.JoinGuild(ctx, &v1alpha1.JoinGuildRequest{GuildID: args[0]})
		})
	},
}

var guildLeaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the current guild",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.LeaveGuildResponse, error) {
			return c.LeaveGuild(ctx, &v1alpha1.LeaveGuildRequest{})
		})
	},
}

var guildListCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse public guilds",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, c *v1alpha1.Client) (*v1alpha1.ListGuildsResponse, error) {
			return c.ListGuilds(ctx, &v1alpha1.ListGuildsRequest{})
		})
	},
}

func init() {
	chatCmd.PersistentFlags().StringVar(&chatChannel, "channel", "", "channel (default global)")
	chatListCmd.Flags().IntVar(&chatLimit, "limit", 0, "number of messages (default 50)")
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatListCmd)

	guildCreateCmd.Flags().StringVar(&guildDescription, "description", "", "guild description")
	guildCreateCmd.Flags().BoolVar(&guildPrivate, "private", false, "create a private guild")
	guildCmd.AddCommand(guildCreateCmd)
	guildCmd.AddCommand(guildJoinCmd)
	guildCmd.AddCommand(guildLeaveCmd)
	guildCmd.AddCommand(guildListCmd)
}
