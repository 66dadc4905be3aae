// Package guild persists guilds at guilds/{id}
package guild

//go:generate mockgen -destination=mock/mock_repository.go -package=guildmock github.com/geocards/geocards-api/internal/repositories/guild Repository

import (
	"context"

	"github.com/geocards/geocards-api/internal/entities"
)

// Repository defines guild persistence
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
	SetMember(ctx context.Context, input SetMemberInput) (*SetMemberOutput, error)
	RemoveMember(ctx context.Context, input RemoveMemberInput) (*RemoveMemberOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput contains the guild to store. Its ID is ignored.
type CreateInput struct {
	Guild *entities.Guild
}

// CreateOutput carries the stored guild with its generated ID
type CreateOutput struct {
	Guild *entities.Guild
}

// GetInput contains parameters for retrieving a guild
type GetInput struct {
	GuildID string
}

// GetOutput contains the retrieved guild
type GetOutput struct {
	Guild *entities.Guild
}

// ListInput is empty
type ListInput struct{}

// ListOutput holds every guild ordered by ID
type ListOutput struct {
	Guilds []*entities.Guild
}

// SetMemberInput adds or replaces one member
type SetMemberInput struct {
	GuildID string
	UserID  string
	Member  *entities.GuildMember
}

// SetMemberOutput is empty
type SetMemberOutput struct{}

// RemoveMemberInput removes one member
type RemoveMemberInput struct {
	GuildID string
	UserID  string
}

// RemoveMemberOutput is empty
type RemoveMemberOutput struct{}

// DeleteInput removes a whole guild
type DeleteInput struct {
	GuildID string
}

// DeleteOutput is empty
type DeleteOutput struct{}
