package v1alpha1

import (
	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/entities"
)

// RegisterRequest creates an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest signs in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a session token and the player's profile
type AuthResponse struct {
	Token       string            `json:"token"`
	ExpiresAt   int64             `json:"expiresAt"`
	UserID      string            `json:"userId"`
	Email       string            `json:"email"`
	Profile     *entities.Profile `json:"profile,omitempty"`
	SyncPending bool              `json:"syncPending,omitempty"`
}

// LogoutRequest signs out the bearer of the call
type LogoutRequest struct{}

// LogoutResponse names the signed-out user
type LogoutResponse struct {
	UserID string `json:"userId"`
}

// UpdateLocationRequest reports a player position
type UpdateLocationRequest struct {
	Location entities.Coordinate `json:"location"`
}

// UpdateLocationResponse lists nearby cards
type UpdateLocationResponse struct {
	Nearby []*entities.Card `json:"nearby"`
}

// CollectCardRequest claims a nearby card
type CollectCardRequest struct {
	CardID string `json:"cardId"`
}

// CollectCardResponse reports the claim and new progress
type CollectCardResponse struct {
	Card        *entities.Card `json:"card"`
	Experience  int            `json:"experience"`
	Level       int            `json:"level"`
	LeveledUp   bool           `json:"leveledUp,omitempty"`
	SyncPending bool           `json:"syncPending,omitempty"`
}

// ListInventoryRequest lists owned items
type ListInventoryRequest struct{}

// ListInventoryResponse holds owned items
type ListInventoryResponse struct {
	Items []*entities.InventoryItem `json:"items"`
}

// StartBattleRequest starts a battle
type StartBattleRequest struct {
	OpponentID string `json:"opponentId,omitempty"`
}

// BattleResponse carries a battle state
type BattleResponse struct {
	State battle.State `json:"state"`
}

// PlayCardRequest plays a hand card
type PlayCardRequest struct {
	HandCardID string `json:"handCardId"`
	Position   int    `json:"position"`
}

// PlayCardResponse reports whether the card was played
type PlayCardResponse struct {
	Played bool         `json:"played"`
	State  battle.State `json:"state"`
}

// EndTurnRequest passes the turn
type EndTurnRequest struct{}

// EndTurnResponse reports whether the turn was passed
type EndTurnResponse struct {
	Accepted bool         `json:"accepted"`
	State    battle.State `json:"state"`
}

// SurrenderRequest concedes the battle
type SurrenderRequest struct{}

// SurrenderResponse carries the recorded outcome
type SurrenderResponse struct {
	Outcome battle.Outcome `json:"outcome"`
	State   battle.State   `json:"state"`
}

// GetBattleRequest reads the current battle
type GetBattleRequest struct{}

// GetBattleResponse carries the state and, once ended, the outcome
type GetBattleResponse struct {
	State   battle.State    `json:"state"`
	Outcome *battle.Outcome `json:"outcome,omitempty"`
}

// SendMessageRequest posts to a chat channel
type SendMessageRequest struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// SendMessageResponse carries the stored message
type SendMessageResponse struct {
	Message *entities.ChatMessage `json:"message"`
}

// ListMessagesRequest reads a chat channel
type ListMessagesRequest struct {
	Channel string `json:"channel,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// ListMessagesResponse holds messages oldest first
type ListMessagesResponse struct {
	Messages []*entities.ChatMessage `json:"messages"`
}

// CreateGuildRequest founds a guild
type CreateGuildRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Type        entities.GuildType `json:"type,omitempty"`
}

// JoinGuildRequest joins a public guild
type JoinGuildRequest struct {
	GuildID string `json:"guildId"`
}

// GuildResponse carries one guild
type GuildResponse struct {
	Guild *entities.Guild `json:"guild"`
}

// LeaveGuildRequest leaves the current guild
type LeaveGuildRequest struct{}

// LeaveGuildResponse reports what happened to the guild
type LeaveGuildResponse struct {
	GuildID string `json:"guildId"`
	Deleted bool   `json:"deleted"`
}

// ListGuildsRequest browses guilds
type ListGuildsRequest struct{}

// GuildSummary is one joinable guild
type GuildSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Type        entities.GuildType `json:"type"`
	MemberCount int                `json:"memberCount"`
}

// ListGuildsResponse holds joinable guilds and the caller's own
type ListGuildsResponse struct {
	Guilds  []*GuildSummary `json:"guilds"`
	Current *entities.Guild `json:"current,omitempty"`
}
