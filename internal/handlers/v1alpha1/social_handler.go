package v1alpha1

import (
	"context"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/chat"
	"github.com/geocards/geocards-api/internal/orchestrators/guild"
)

// SendMessage posts to a chat channel
func (h *Handler) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.chatService.Send(ctx, &chat.SendInput{
		UserID:  uid,
		Channel: req.Channel,
		Text:    req.Text,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SendMessageResponse{Message: out.Message}, nil
}

// ListMessages reads a chat channel
func (h *Handler) ListMessages(ctx context.Context, req *ListMessagesRequest) (*ListMessagesResponse, error) {
	if _, err := h.authenticate(ctx); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.chatService.List(ctx, &chat.ListInput{
		Channel: req.Channel,
		Limit:   req.Limit,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListMessagesResponse{Messages: out.Messages}, nil
}

// CreateGuild founds a guild led by the caller
func (h *Handler) CreateGuild(ctx context.Context, req *CreateGuildRequest) (*GuildResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.guildService.Create(ctx, &guild.CreateInput{
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GuildResponse{Guild: out.Guild}, nil
}

// JoinGuild joins a public guild
func (h *Handler) JoinGuild(ctx context.Context, req *JoinGuildRequest) (*GuildResponse, error) {
	if req.GuildID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("guild_id is required"))
	}

	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.guildService.Join(ctx, &guild.JoinInput{
		UserID:  uid,
		GuildID: req.GuildID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GuildResponse{Guild: out.Guild}, nil
}

// LeaveGuild leaves the caller's guild
func (h *Handler) LeaveGuild(ctx context.Context, _ *LeaveGuildRequest) (*LeaveGuildResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.guildService.Leave(ctx, &guild.LeaveInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &LeaveGuildResponse{GuildID: out.GuildID, Deleted: out.Deleted}, nil
}

// ListGuilds browses joinable guilds
func (h *Handler) ListGuilds(ctx context.Context, _ *ListGuildsRequest) (*ListGuildsResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.guildService.List(ctx, &guild.ListInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	summaries := make([]*GuildSummary, 0, len(out.Guilds))
	for _, g := range out.Guilds {
		summaries = append(summaries, &GuildSummary{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Type:        g.Type,
			MemberCount: g.MemberCount,
		})
	}

	return &ListGuildsResponse{Guilds: summaries, Current: out.Current}, nil
}
