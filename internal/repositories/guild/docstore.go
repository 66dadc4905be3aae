package guild

import (
	"context"
	"sort"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
)

const (
	guildsPath = "guilds"

	errGuildIDEmpty = "guild ID cannot be empty"
)

// Path is where a guild lives
func Path(guildID string) string {
	return docstore.Join(guildsPath, guildID)
}

// Config holds the configuration for the document store repository
type Config struct {
	Store docstore.Store
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Store == nil {
		return errors.InvalidArgument("document store is required")
	}
	return nil
}

type docstoreRepository struct {
	store docstore.Store
}

// NewDocstoreRepository creates a guild repository over a document store
func NewDocstoreRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &docstoreRepository{store: cfg.Store}, nil
}

// Ensure docstoreRepository implements Repository
var _ Repository = (*docstoreRepository)(nil)

// Create pushes a new guild under a generated key
func (r *docstoreRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Guild == nil {
		return nil, errors.InvalidArgument("guild cannot be nil")
	}

	stored := *input.Guild
	stored.ID = ""

	key, err := r.store.Push(ctx, guildsPath, &stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store guild")
	}

	stored.ID = key
	return &CreateOutput{Guild: &stored}, nil
}

// Get reads one guild
func (r *docstoreRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.GuildID == "" {
		return nil, errors.InvalidArgument(errGuildIDEmpty)
	}
	if err := docstore.ValidateSegment(input.GuildID); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, Path(input.GuildID))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load guild")
	}
	if !snap.Exists() {
		return nil, errors.NotFound("guild not found").WithMeta("guild_id", input.GuildID)
	}

	g := &entities.Guild{}
	if err := snap.Decode(g); err != nil {
		return nil, errors.Wrapf(err, "failed to decode guild")
	}
	g.ID = input.GuildID
	return &GetOutput{Guild: g}, nil
}

// List reads every guild
func (r *docstoreRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	snap, err := r.store.Get(ctx, guildsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load guilds")
	}

	raw := make(map[string]*entities.Guild)
	if err := snap.Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode guilds")
	}

	return &ListOutput{Guilds: Sorted(raw)}, nil
}

// Sorted flattens a decoded guilds map ordered by ID
func Sorted(raw map[string]*entities.Guild) []*entities.Guild {
	guilds := make([]*entities.Guild, 0, len(raw))
	for id, g := range raw {
		if g == nil {
			continue
		}
		g.ID = id
		guilds = append(guilds, g)
	}
	sort.Slice(guilds, func(i, j int) bool { return guilds[i].ID < guilds[j].ID })
	return guilds
}

// SetMember writes guilds/{id}/members/{uid}
func (r *docstoreRepository) SetMember(ctx context.Context, input SetMemberInput) (*SetMemberOutput, error) {
	if input.GuildID == "" {
		return nil, errors.InvalidArgument(errGuildIDEmpty)
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}
	if input.Member == nil {
		return nil, errors.InvalidArgument("member cannot be nil")
	}

	if err := r.store.Set(ctx, docstore.Join(Path(input.GuildID), "members", input.UserID), input.Member); err != nil {
		return nil, errors.Wrapf(err, "failed to store guild member")
	}
	return &SetMemberOutput{}, nil
}

// RemoveMember deletes guilds/{id}/members/{uid}
func (r *docstoreRepository) RemoveMember(ctx context.Context, input RemoveMemberInput) (*RemoveMemberOutput, error) {
	if input.GuildID == "" {
		return nil, errors.InvalidArgument(errGuildIDEmpty)
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}

	if err := r.store.Set(ctx, docstore.Join(Path(input.GuildID), "members", input.UserID), nil); err != nil {
		return nil, errors.Wrapf(err, "failed to remove guild member")
	}
	return &RemoveMemberOutput{}, nil
}

// Delete removes the guild
func (r *docstoreRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.GuildID == "" {
		return nil, errors.InvalidArgument(errGuildIDEmpty)
	}

	if err := r.store.Set(ctx, Path(input.GuildID), nil); err != nil {
		return nil, errors.Wrapf(err, "failed to delete guild")
	}
	return &DeleteOutput{}, nil
}
