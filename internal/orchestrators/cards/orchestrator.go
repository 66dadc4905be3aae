// Package cards implements the map loop: seeding the card field, matching
// cards near the player and collecting them
package cards

//go:generate mockgen -destination=mock/mock_service.go -package=cardsmock github.com/geocards/geocards-api/internal/orchestrators/cards Service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	cardgen "github.com/geocards/geocards-api/internal/cards"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/geo"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	cardsrepo "github.com/geocards/geocards-api/internal/repositories/cards"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

// Default radii in meters
const (
	DefaultNearbyRadiusMeters  = 100.0
	DefaultCollectRadiusMeters = 100.0
)

// Service defines the interface for card operations
type Service interface {
	// EnsureField loads the shared field, generating it when empty
	EnsureField(ctx context.Context, input *EnsureFieldInput) (*EnsureFieldOutput, error)

	// UpdateLocation records the player position and returns nearby cards
	UpdateLocation(ctx context.Context, input *UpdateLocationInput) (*UpdateLocationOutput, error)

	// Collect claims a nearby card and awards its power as experience
	Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// ListInventory returns the player's items
	ListInventory(ctx context.Context, input *ListInventoryInput) (*ListInventoryOutput, error)
}

// Config holds the dependencies for the cards orchestrator
type Config struct {
	Sessions    session.Registry
	CardRepo    cardsrepo.Repository
	ProfileRepo profile.Repository
	Generator   *cardgen.Generator

	// Radii default to 100 m
	NearbyRadiusMeters  float64
	CollectRadiusMeters float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.CardRepo == nil {
		vb.RequiredField("CardRepo")
	}
	if c.ProfileRepo == nil {
		vb.RequiredField("ProfileRepo")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.NearbyRadiusMeters < 0 {
		vb.Field("NearbyRadiusMeters", "must not be negative")
	}
	if c.CollectRadiusMeters < 0 {
		vb.Field("CollectRadiusMeters", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions      session.Registry
	cardRepo      cardsrepo.Repository
	profileRepo   profile.Repository
	generator     *cardgen.Generator
	nearbyRadius  float64
	collectRadius float64

	// seedMu serializes field generation within the process
	seedMu sync.Mutex
}

// NewOrchestrator creates a new cards orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		sessions:      cfg.Sessions,
		cardRepo:      cfg.CardRepo,
		profileRepo:   cfg.ProfileRepo,
		generator:     cfg.Generator,
		nearbyRadius:  cfg.NearbyRadiusMeters,
		collectRadius: cfg.CollectRadiusMeters,
	}
	if o.nearbyRadius == 0 {
		o.nearbyRadius = DefaultNearbyRadiusMeters
	}
	if o.collectRadius == 0 {
		o.collectRadius = DefaultCollectRadiusMeters
	}
	return o, nil
}

// EnsureField returns the stored field or writes a generated one
func (o *orchestrator) EnsureField(ctx context.Context, input *EnsureFieldInput) (*EnsureFieldOutput, error) {
	if input == nil {
		input = &EnsureFieldInput{}
	}

	o.seedMu.Lock()
	defer o.seedMu.Unlock()

	existing, err := o.cardRepo.ListAll(ctx, cardsrepo.ListAllInput{})
	if err != nil {
		return nil, err
	}
	if len(existing.Cards) > 0 {
		return &EnsureFieldOutput{Cards: sortedCards(existing.Cards)}, nil
	}

	center := cardgen.DefaultCenter
	if input.Center != nil {
		center = *input.Center
	}
	count := input.Count
	if count <= 0 {
		count = cardgen.DefaultFieldSize
	}

	field, err := o.generator.Field(center, count)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate field")
	}
	if _, err := o.cardRepo.ReplaceAll(ctx, cardsrepo.ReplaceAllInput{Cards: field}); err != nil {
		return nil, err
	}

	slog.Info("Generated card field",
		"count", len(field),
		"lat", center.Lat,
		"lng", center.Lng,
	)
	return &EnsureFieldOutput{Cards: field, Generated: true}, nil
}

// UpdateLocation filters the mirrored field by distance
func (o *orchestrator) UpdateLocation(_ context.Context, input *UpdateLocationInput) (*UpdateLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateCoordinate(input.Location); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	nearby := geo.WithinRadius(input.Location, o.nearbyRadius, sess.Field().Values())
	ids := make([]string, len(nearby))
	for i, c := range nearby {
		ids[i] = c.ID
	}
	sess.SetLocation(input.Location, ids)

	return &UpdateLocationOutput{Nearby: nearby}, nil
}

// Collect marks the card collected and adds its power to the player's
// experience. Local state is updated first; failed writes leave the
// session diverged until the next snapshot.
func (o *orchestrator) Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("cardID", input.CardID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	card, ok := sess.Field().Get(input.CardID)
	if !ok {
		return nil, errors.NotFound("card not found").WithMeta("card_id", input.CardID)
	}
	if card.CollectedBy(input.UserID) {
		return nil, errors.FailedPrecondition("card already collected").WithMeta("card_id", input.CardID)
	}

	loc, ok := sess.Location()
	if !ok {
		return nil, errors.FailedPrecondition("location unknown, report a position first")
	}
	if d := geo.DistanceMeters(loc, card.Position()); !(d <= o.collectRadius) {
		return nil, errors.FailedPrecondition("card is too far away").
			WithMeta("card_id", input.CardID).
			WithMeta("distance_meters", int(d))
	}

	claimed := *card
	claimed.Collected = make(map[string]bool, len(card.Collected)+1)
	for uid := range card.Collected {
		claimed.Collected[uid] = true
	}
	claimed.Collected[input.UserID] = true
	sess.Field().Upsert(claimed.ID, &claimed)

	var before session.Progress
	after := sess.UpdateProgress(func(p *session.Progress) {
		before = *p
		p.Experience += card.Power
		// levels won in battle are not backed by experience, so never lower
		p.Level = max(p.Level, cardgen.LevelForExperience(p.Experience))
	})

	if _, err := o.cardRepo.MarkCollected(ctx, cardsrepo.MarkCollectedInput{
		CardID: claimed.ID,
		UserID: input.UserID,
	}); err != nil {
		sess.MarkDiverged(docstore.Join(cardsrepo.Path, claimed.ID), err)
	}
	if _, err := o.profileRepo.UpdateProgress(ctx, profile.UpdateProgressInput{
		UserID:     input.UserID,
		Experience: after.Experience,
		Level:      after.Level,
	}); err != nil {
		sess.MarkDiverged(profile.UserPath(input.UserID), err)
	}

	leveledUp := after.Level > before.Level
	slog.Info("Card collected",
		"user_id", input.UserID,
		"card_id", claimed.ID,
		"experience", after.Experience,
		"level", after.Level,
		"leveled_up", leveledUp,
	)

	return &CollectOutput{
		Card:        &claimed,
		Experience:  after.Experience,
		Level:       after.Level,
		LeveledUp:   leveledUp,
		SyncPending: sess.SyncPending(),
	}, nil
}

// ListInventory returns the mirrored inventory
func (o *orchestrator) ListInventory(_ context.Context, input *ListInventoryInput) (*ListInventoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}
	return &ListInventoryOutput{Items: sess.Inventory().Values()}, nil
}

func validateCoordinate(c entities.Coordinate) error {
	vb := errors.NewValidationBuilder()
	if !(c.Lat >= -90 && c.Lat <= 90) {
		vb.Field("lat", "must be between -90 and 90")
	}
	if !(c.Lng >= -180 && c.Lng <= 180) {
		vb.Field("lng", "must be between -180 and 180")
	}
	return vb.Build()
}

func sortedCards(m map[string]*entities.Card) []*entities.Card {
	out := make([]*entities.Card, 0, len(m))
	for id, c := range m {
		c.ID = id
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
