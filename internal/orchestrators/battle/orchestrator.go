// Package battle implements the battle flow of a session and persists the
// rewards of won battles
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/geocards/geocards-api/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

// DefaultOpponentID names the scripted bot
const DefaultOpponentID = "bot"

const persistTimeout = 10 * time.Second

// Service defines the interface for battle operations
type Service interface {
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)
	PlayCard(ctx context.Context, input *PlayCardInput) (*PlayCardOutput, error)
	EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error)
	Surrender(ctx context.Context, input *SurrenderInput) (*SurrenderOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	Sessions    session.Registry
	ProfileRepo profile.Repository

	// EventBus is the bus the session engines publish to
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.ProfileRepo == nil {
		vb.RequiredField("ProfileRepo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Orchestrator implements Service. Close stops listening for battle ends.
type Orchestrator struct {
	sessions    session.Registry
	profileRepo profile.Repository
	bus         events.EventBus
	subID       string
}

// NewOrchestrator creates a battle orchestrator subscribed to battle.ended
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		sessions:    cfg.Sessions,
		profileRepo: cfg.ProfileRepo,
		bus:         cfg.EventBus,
	}
	o.subID = o.bus.SubscribeFunc(battle.EventEnded, 0, o.handleEnded)
	return o, nil
}

// Ensure Orchestrator implements Service
var _ Service = (*Orchestrator)(nil)

// Close unsubscribes from the event bus
func (o *Orchestrator) Close() error {
	return o.bus.Unsubscribe(o.subID)
}

// Start deals a new battle from the session inventory
func (o *Orchestrator) Start(_ context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	opponent := input.OpponentID
	if opponent == "" {
		opponent = DefaultOpponentID
	}

	state, err := sess.Battle().Start(opponent, sess.Inventory().Values())
	if err != nil {
		return nil, err
	}
	return &StartOutput{State: state}, nil
}

// PlayCard plays a hand card. A rejected play is not an error.
func (o *Orchestrator) PlayCard(_ context.Context, input *PlayCardInput) (*PlayCardOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("handCardID", input.HandCardID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	played := sess.Battle().PlayCard(input.HandCardID, input.Position)
	return &PlayCardOutput{Played: played, State: sess.Battle().Snapshot()}, nil
}

// EndTurn hands the turn to the scripted opponent
func (o *Orchestrator) EndTurn(_ context.Context, input *EndTurnInput) (*EndTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	accepted := sess.Battle().EndTurn()
	return &EndTurnOutput{Accepted: accepted, State: sess.Battle().Snapshot()}, nil
}

// Surrender ends the battle as a loss
func (o *Orchestrator) Surrender(_ context.Context, input *SurrenderInput) (*SurrenderOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	state := sess.Battle().Snapshot()
	if state.Phase == battle.PhaseNotStarted {
		return nil, errors.FailedPrecondition("no battle in progress")
	}

	outcome := sess.Battle().EndBattle(true)
	return &SurrenderOutput{Outcome: outcome, State: sess.Battle().Snapshot()}, nil
}

// Get returns the current battle state
func (o *Orchestrator) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	out := &GetOutput{State: sess.Battle().Snapshot()}
	if outcome, ok := sess.Battle().Outcome(); ok {
		out.Outcome = &outcome
	}
	return out, nil
}

// handleEnded writes the reward and level of a won battle. The engine id is
// the owning user id. The outcome comes from the event, not the engine,
// which may already be running the next battle.
func (o *Orchestrator) handleEnded(_ context.Context, e events.Event) error {
	if e.Source() == nil {
		return nil
	}
	userID := e.Source().GetID()

	sess, err := o.sessions.Get(userID)
	if err != nil {
		slog.Warn("Battle ended without a session", "user_id", userID, "error", err)
		return nil
	}

	outcome, ok := battle.OutcomeFromEvent(e)
	if !ok || outcome.Winner != battle.SidePlayer {
		return nil
	}

	o.persistReward(sess, outcome)
	return nil
}

// persistReward applies the reward locally and writes it. Write failures
// leave the session diverged.
func (o *Orchestrator) persistReward(sess *session.Session, outcome battle.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	userID := sess.UserID()
	progress := sess.UpdateProgress(func(p *session.Progress) {
		p.Level += outcome.LevelGained
	})

	if outcome.Reward != nil {
		sess.Inventory().Upsert(outcome.Reward.ID, outcome.Reward)
		if _, err := o.profileRepo.AddInventoryItem(ctx, profile.AddInventoryItemInput{
			UserID: userID,
			Item:   outcome.Reward,
		}); err != nil {
			sess.MarkDiverged(profile.InventoryPath(userID), err)
		}
	}

	if _, err := o.profileRepo.UpdateProgress(ctx, profile.UpdateProgressInput{
		UserID:     userID,
		Experience: progress.Experience,
		Level:      progress.Level,
	}); err != nil {
		sess.MarkDiverged(profile.UserPath(userID), err)
	}

	slog.Info("Battle reward granted",
		"user_id", userID,
		"battle_id", outcome.BattleID,
		"level", progress.Level,
		"sync_pending", sess.SyncPending(),
	)
}
