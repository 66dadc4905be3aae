// Package guild implements guild founding, membership and browsing
package guild

//go:generate mockgen -destination=mock/mock_service.go -package=guildmock github.com/geocards/geocards-api/internal/orchestrators/guild Service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	guildrepo "github.com/geocards/geocards-api/internal/repositories/guild"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

// Field limits
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 500
)

const rollbackTimeout = 5 * time.Second

// Service defines the interface for guild operations
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// Config holds the dependencies for the guild orchestrator
type Config struct {
	Sessions    session.Registry
	GuildRepo   guildrepo.Repository
	ProfileRepo profile.Repository
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.GuildRepo == nil {
		vb.RequiredField("GuildRepo")
	}
	if c.ProfileRepo == nil {
		vb.RequiredField("ProfileRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions    session.Registry
	guildRepo   guildrepo.Repository
	profileRepo profile.Repository
	clock       clock.Clock
}

// NewOrchestrator creates a new guild orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &orchestrator{
		sessions:    cfg.Sessions,
		guildRepo:   cfg.GuildRepo,
		profileRepo: cfg.ProfileRepo,
		clock:       c,
	}, nil
}

// currentGuild reads the caller's guild link from the stored profile
func (o *orchestrator) currentGuild(ctx context.Context, userID string) (string, error) {
	out, err := o.profileRepo.Get(ctx, profile.GetInput{UserID: userID})
	if err != nil {
		return "", err
	}
	return out.Profile.Guild, nil
}

// Create founds a guild led by the caller
func (o *orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	guildType := input.Type
	if guildType == "" {
		guildType = entities.GuildPublic
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", name, vb)
	errors.ValidateMaxLength("name", name, MaxNameLength, vb)
	errors.ValidateRequired("description", description, vb)
	errors.ValidateMaxLength("description", description, MaxDescriptionLength, vb)
	errors.ValidateEnum("type", string(guildType), []string{string(entities.GuildPublic), string(entities.GuildPrivate)}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	current, err := o.currentGuild(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	if current != "" {
		return nil, errors.FailedPrecondition("leave your current guild first").WithMeta("guild_id", current)
	}

	now := o.clock.Now().UnixMilli()
	out, err := o.guildRepo.Create(ctx, guildrepo.CreateInput{Guild: &entities.Guild{
		Name:        name,
		Description: description,
		Type:        guildType,
		Leader:      sess.UserID(),
		Members: map[string]*entities.GuildMember{
			sess.UserID(): {Role: entities.RoleLeader, Email: sess.Email(), JoinDate: now},
		},
		Created: now,
	}})
	if err != nil {
		return nil, err
	}

	if err := o.link(ctx, sess, out.Guild.ID); err != nil {
		o.rollback(ctx, out.Guild.ID, func(ctx context.Context) error {
			_, err := o.guildRepo.Delete(ctx, guildrepo.DeleteInput{GuildID: out.Guild.ID})
			return err
		})
		return nil, err
	}

	slog.Info("Guild created",
		"guild_id", out.Guild.ID,
		"leader", sess.UserID(),
		"type", string(guildType),
	)
	return &CreateOutput{Guild: out.Guild}, nil
}

// Join adds the caller to a public guild
func (o *orchestrator) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("guildID", input.GuildID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	current, err := o.currentGuild(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	if current != "" {
		return nil, errors.FailedPrecondition("leave your current guild first").WithMeta("guild_id", current)
	}

	got, err := o.guildRepo.Get(ctx, guildrepo.GetInput{GuildID: input.GuildID})
	if err != nil {
		return nil, err
	}
	g := got.Guild
	if g.Type != entities.GuildPublic {
		return nil, errors.PermissionDenied("guild is private").WithMeta("guild_id", g.ID)
	}

	member := &entities.GuildMember{
		Role:     entities.RoleMember,
		Email:    sess.Email(),
		JoinDate: o.clock.Now().UnixMilli(),
	}
	if _, err := o.guildRepo.SetMember(ctx, guildrepo.SetMemberInput{
		GuildID: g.ID,
		UserID:  sess.UserID(),
		Member:  member,
	}); err != nil {
		return nil, err
	}
	if err := o.link(ctx, sess, g.ID); err != nil {
		o.rollback(ctx, g.ID, func(ctx context.Context) error {
			_, err := o.guildRepo.RemoveMember(ctx, guildrepo.RemoveMemberInput{
				GuildID: g.ID,
				UserID:  sess.UserID(),
			})
			return err
		})
		return nil, err
	}

	if g.Members == nil {
		g.Members = make(map[string]*entities.GuildMember)
	}
	g.Members[sess.UserID()] = member

	slog.Info("Guild joined", "guild_id", g.ID, "user_id", sess.UserID())
	return &JoinOutput{Guild: g}, nil
}

// Leave removes the caller from their guild. A leader can only leave as
// the last member, which deletes the guild.
func (o *orchestrator) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	guildID, err := o.currentGuild(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	if guildID == "" {
		return nil, errors.FailedPrecondition("you are not in a guild")
	}

	deleted := false
	got, err := o.guildRepo.Get(ctx, guildrepo.GetInput{GuildID: guildID})
	switch {
	case errors.IsNotFound(err):
		// stale link, only the profile needs clearing
	case err != nil:
		return nil, err
	case got.Guild.Leader == sess.UserID():
		if len(got.Guild.Members) > 1 {
			return nil, errors.FailedPrecondition("hand over leadership before leaving").WithMeta("guild_id", guildID)
		}
		if _, err := o.guildRepo.Delete(ctx, guildrepo.DeleteInput{GuildID: guildID}); err != nil {
			return nil, err
		}
		deleted = true
	default:
		if _, err := o.guildRepo.RemoveMember(ctx, guildrepo.RemoveMemberInput{
			GuildID: guildID,
			UserID:  sess.UserID(),
		}); err != nil {
			return nil, err
		}
	}

	if err := o.link(ctx, sess, ""); err != nil {
		return nil, err
	}

	slog.Info("Guild left",
		"guild_id", guildID,
		"user_id", sess.UserID(),
		"deleted", deleted,
	)
	return &LeaveOutput{GuildID: guildID, Deleted: deleted}, nil
}

// List returns public guilds other than the caller's, with member counts
func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	current, err := o.currentGuild(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	all, err := o.guildRepo.List(ctx, guildrepo.ListInput{})
	if err != nil {
		return nil, err
	}

	out := &ListOutput{Guilds: make([]*Summary, 0, len(all.Guilds))}
	for _, g := range all.Guilds {
		if g.ID == current {
			out.Current = g
			continue
		}
		if g.Type != entities.GuildPublic {
			continue
		}
		out.Guilds = append(out.Guilds, &Summary{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Type:        g.Type,
			MemberCount: len(g.Members),
		})
	}
	return out, nil
}

// link writes the profile's guild field and mirrors it into the session
// rollback undoes a guild write whose profile link failed, so the caller
// can retry. It runs even when ctx is already cancelled.
func (o *orchestrator) rollback(ctx context.Context, guildID string, undo func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	if err := undo(ctx); err != nil {
		slog.Error("Failed to roll back guild write",
			"guild_id", guildID,
			"error", err,
		)
	}
}

func (o *orchestrator) link(ctx context.Context, sess *session.Session, guildID string) error {
	if _, err := o.profileRepo.SetGuild(ctx, profile.SetGuildInput{
		UserID:  sess.UserID(),
		GuildID: guildID,
	}); err != nil {
		return err
	}
	sess.UpdateProgress(func(p *session.Progress) {
		p.Guild = guildID
	})
	return nil
}
