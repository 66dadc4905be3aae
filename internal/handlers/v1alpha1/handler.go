// Package v1alpha1 serves the geocards GameService over gRPC
package v1alpha1

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/account"
	"github.com/geocards/geocards-api/internal/orchestrators/battle"
	"github.com/geocards/geocards-api/internal/orchestrators/cards"
	"github.com/geocards/geocards-api/internal/orchestrators/chat"
	"github.com/geocards/geocards-api/internal/orchestrators/guild"
)

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

// HandlerConfig holds dependencies for the game handler
type HandlerConfig struct {
	AccountService account.Service
	CardService    cards.Service
	BattleService  battle.Service
	ChatService    chat.Service
	GuildService   guild.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.AccountService == nil {
		vb.RequiredField("AccountService")
	}
	if c.CardService == nil {
		vb.RequiredField("CardService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	if c.ChatService == nil {
		vb.RequiredField("ChatService")
	}
	if c.GuildService == nil {
		vb.RequiredField("GuildService")
	}
	return vb.Build()
}

// Handler implements GameServiceServer
type Handler struct {
	accountService account.Service
	cardService    cards.Service
	battleService  battle.Service
	chatService    chat.Service
	guildService   guild.Service
}

var _ GameServiceServer = (*Handler)(nil)

// NewHandler creates a new game handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		accountService: cfg.AccountService,
		cardService:    cfg.CardService,
		battleService:  cfg.BattleService,
		chatService:    cfg.ChatService,
		guildService:   cfg.GuildService,
	}, nil
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.Unauthenticated("missing credentials")
	}
	for _, v := range md.Get(authorizationHeader) {
		if token, found := strings.CutPrefix(v, bearerPrefix); found && token != "" {
			return token, nil
		}
	}
	return "", errors.Unauthenticated("missing bearer token")
}

// authenticate resolves the calling user id, reopening its session if needed
func (h *Handler) authenticate(ctx context.Context) (string, error) {
	token, err := bearerToken(ctx)
	if err != nil {
		return "", err
	}

	out, err := h.accountService.Authenticate(ctx, &account.AuthenticateInput{Token: token})
	if err != nil {
		return "", err
	}
	return out.User.ID, nil
}

// Register creates an account
func (h *Handler) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	out, err := h.accountService.Register(ctx, &account.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &AuthResponse{
		Token:       out.Token,
		ExpiresAt:   out.ExpiresAt.UnixMilli(),
		UserID:      out.User.ID,
		Email:       out.User.Email,
		Profile:     out.Profile,
		SyncPending: out.SyncPending,
	}, nil
}

// Login signs in
func (h *Handler) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	out, err := h.accountService.Login(ctx, &account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &AuthResponse{
		Token:       out.Token,
		ExpiresAt:   out.ExpiresAt.UnixMilli(),
		UserID:      out.User.ID,
		Email:       out.User.Email,
		Profile:     out.Profile,
		SyncPending: out.SyncPending,
	}, nil
}

// Logout revokes the caller's token
func (h *Handler) Logout(ctx context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	token, err := bearerToken(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.accountService.Logout(ctx, &account.LogoutInput{Token: token})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &LogoutResponse{UserID: out.UserID}, nil
}
