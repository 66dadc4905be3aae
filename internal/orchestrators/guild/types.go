package guild

import "github.com/geocards/geocards-api/internal/entities"

// CreateInput defines the request for founding a guild. An empty Type
// creates a public guild.
type CreateInput struct {
	UserID      string
	Name        string
	Description string
	Type        entities.GuildType
}

// CreateOutput carries the stored guild
type CreateOutput struct {
	Guild *entities.Guild
}

// JoinInput defines the request for joining a public guild
type JoinInput struct {
	UserID  string
	GuildID string
}

// JoinOutput carries the joined guild
type JoinOutput struct {
	Guild *entities.Guild
}

// LeaveInput defines the request for leaving the current guild
type LeaveInput struct {
	UserID string
}

// LeaveOutput reports what happened to the guild
type LeaveOutput struct {
	GuildID string
	Deleted bool
}

// ListInput defines the request for browsing guilds
type ListInput struct {
	UserID string
}

// Summary is one joinable guild
type Summary struct {
	ID          string
	Name        string
	Description string
	Type        entities.GuildType
	MemberCount int
}

// ListOutput holds joinable public guilds and the caller's own guild
type ListOutput struct {
	Guilds  []*Summary
	Current *entities.Guild
}
