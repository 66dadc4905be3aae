// Package battle implements the turn-based card battle between a player
// and a scripted opponent. The engine is a pure state machine: callers
// drive it with PlayCard and EndTurn and observe it through Snapshot and
// the events it publishes. The opponent's turn runs on a Pacer so the
// same engine serves paced play and headless tests.
package battle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

// Event types published on the bus
const (
	EventUpdated = "battle.updated"
	EventEnded   = "battle.ended"

	// ContextKeyOutcome holds the Outcome on a battle.ended event context
	ContextKeyOutcome = "outcome"

	// EntityType is what the engine reports as its core.Entity type
	EntityType = "battle"

	opponentMaxDamage = 5
)

// Rewarder produces the item granted for a player win
type Rewarder interface {
	Reward() (*entities.InventoryItem, error)
}

// Config holds the dependencies for an engine
type Config struct {
	// ID identifies the engine as an event source, usually the owning
	// player's id
	ID          string
	Roller      dice.Roller
	Rewarder    Rewarder
	IDGenerator idgen.Generator

	// EventBus receives battle.updated and battle.ended. A private bus is
	// created when nil.
	EventBus events.EventBus

	// Pacer defaults to RealPacer
	Pacer           Pacer
	OpponentDelay   time.Duration
	TurnReturnDelay time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ID == "" {
		vb.RequiredField("ID")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Rewarder == nil {
		vb.RequiredField("Rewarder")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.OpponentDelay < 0 {
		vb.Field("OpponentDelay", "must not be negative")
	}
	if c.TurnReturnDelay < 0 {
		vb.Field("TurnReturnDelay", "must not be negative")
	}

	return vb.Build()
}

// Engine runs one battle at a time for one player
type Engine struct {
	id              string
	roller          dice.Roller
	rewarder        Rewarder
	idGen           idgen.Generator
	bus             events.EventBus
	pacer           Pacer
	opponentDelay   time.Duration
	turnReturnDelay time.Duration

	mu        sync.Mutex
	state     State
	inventory []*entities.InventoryItem
	outcome   *Outcome
	closed    bool

	// epoch changes whenever pending timers must be discarded
	epoch   uint64
	pending map[uint64]func()
	nextID  uint64
}

var _ core.Entity = (*Engine)(nil)

// NewEngine creates an engine in the NotStarted phase
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewBus()
	}
	var pacer Pacer = RealPacer{}
	if cfg.Pacer != nil {
		pacer = cfg.Pacer
	}

	return &Engine{
		id:              cfg.ID,
		roller:          cfg.Roller,
		rewarder:        cfg.Rewarder,
		idGen:           cfg.IDGenerator,
		bus:             bus,
		pacer:           pacer,
		opponentDelay:   cfg.OpponentDelay,
		turnReturnDelay: cfg.TurnReturnDelay,
		state:           State{Phase: PhaseNotStarted},
		pending:         make(map[uint64]func()),
	}, nil
}

// GetID implements core.Entity
func (e *Engine) GetID() string {
	return e.id
}

// GetType implements core.Entity
func (e *Engine) GetType() string {
	return EntityType
}

// Bus returns the bus the engine publishes to
func (e *Engine) Bus() events.EventBus {
	return e.bus
}

// Start begins a battle against opponentID with a copy of inventory as the
// draw pile. Any timer left from a previous battle is cancelled.
func (e *Engine) Start(opponentID string, inventory []*entities.InventoryItem) (State, error) {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return State{}, errors.FailedPrecondition("battle engine is closed")
	}
	if e.state.Phase != PhaseNotStarted && e.state.Phase != PhaseEnded {
		e.mu.Unlock()
		return State{}, errors.FailedPrecondition("a battle is already in progress").
			WithMeta("battle_id", e.state.BattleID)
	}

	e.cancelPendingLocked()

	pile := make([]*entities.InventoryItem, 0, len(inventory))
	for _, item := range inventory {
		if item != nil {
			pile = append(pile, item)
		}
	}

	hand, err := e.dealLocked(pile)
	if err != nil {
		e.mu.Unlock()
		return State{}, err
	}

	e.inventory = pile
	e.outcome = nil
	e.state = State{
		BattleID:      e.idGen.Generate(),
		OpponentID:    opponentID,
		Phase:         PhasePlayerTurn,
		TurnOwner:     SidePlayer,
		PlayerHP:      MaxHP,
		OpponentHP:    MaxHP,
		ManaCapacity:  StartingMana,
		ManaAvailable: StartingMana,
		Hand:          hand,
		Board:         []HandCard{},
		TurnNumber:    1,
	}
	snap := e.state.Clone()
	e.mu.Unlock()

	slog.Info("Battle started",
		"battle_id", snap.BattleID,
		"player_id", e.id,
		"opponent_id", opponentID,
		"hand_size", len(snap.Hand),
	)

	e.publish(EventUpdated)
	return snap, nil
}

// dealLocked draws min(OpeningHandSize, len(pile)) distinct items
func (e *Engine) dealLocked(pile []*entities.InventoryItem) ([]HandCard, error) {
	order := make([]int, len(pile))
	for i := range order {
		order[i] = i
	}

	n := min(OpeningHandSize, len(pile))
	hand := make([]HandCard, 0, n)
	for k := 0; k < n; k++ {
		roll, err := e.roller.Roll(len(order) - k)
		if err != nil {
			return nil, errors.Wrap(err, "failed to deal opening hand")
		}
		j := k + roll - 1
		order[k], order[j] = order[j], order[k]
		hand = append(hand, HandCard{InstanceID: e.idGen.Generate(), Item: pile[order[k]]})
	}
	return hand, nil
}

// PlayCard plays a card from the hand onto the board at position. It
// returns false, leaving the state untouched, when it is not the player's
// turn, the card is not in hand or the player cannot pay for it.
func (e *Engine) PlayCard(handCardID string, position int) bool {
	e.mu.Lock()

	if e.state.Phase != PhasePlayerTurn {
		e.mu.Unlock()
		return false
	}

	idx := -1
	for i, c := range e.state.Hand {
		if c.InstanceID == handCardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return false
	}

	card := e.state.Hand[idx]
	cost := max(card.Item.Cost(), 0)
	if cost > e.state.ManaAvailable {
		e.mu.Unlock()
		return false
	}

	e.state.ManaAvailable -= cost
	e.state.Hand = append(e.state.Hand[:idx:idx], e.state.Hand[idx+1:]...)

	position = max(0, min(position, len(e.state.Board)))
	e.state.Board = append(e.state.Board[:position:position],
		append([]HandCard{card}, e.state.Board[position:]...)...)

	if effect := card.Item.BattleEffect(); effect != nil {
		value := max(effect.Value, 0)
		switch effect.Kind {
		case entities.EffectDamage:
			e.state.OpponentHP -= value
		case entities.EffectHeal:
			e.state.PlayerHP = min(MaxHP, e.state.PlayerHP+value)
		}
	}

	e.state.OpponentHP = max(e.state.OpponentHP, 0)
	e.state.PlayerHP = max(e.state.PlayerHP, 0)

	var ended *Outcome
	if e.state.OpponentHP == 0 {
		e.finishLocked(false)
		out := *e.outcome
		ended = &out
	}
	e.mu.Unlock()

	e.publish(EventUpdated)
	if ended != nil {
		e.publishEnded(*ended)
	}
	return true
}

// EndTurn hands the turn to the opponent. Only the player can end a turn.
func (e *Engine) EndTurn() bool {
	e.mu.Lock()
	if e.state.Phase != PhasePlayerTurn {
		e.mu.Unlock()
		return false
	}
	e.state.Phase = PhaseOpponentTurn
	e.state.TurnOwner = SideOpponent
	epoch := e.epoch
	e.mu.Unlock()

	e.publish(EventUpdated)
	e.schedule(epoch, e.opponentDelay, e.opponentTurn)
	return true
}

// opponentTurn deals 1..5 damage to the player. The opponent has no mana
// or cards.
func (e *Engine) opponentTurn(epoch uint64) {
	e.mu.Lock()
	if epoch != e.epoch || e.state.Phase != PhaseOpponentTurn {
		e.mu.Unlock()
		return
	}

	damage, err := e.roller.Roll(opponentMaxDamage)
	if err != nil {
		slog.Warn("Opponent damage roll failed, dealing minimum",
			"battle_id", e.state.BattleID,
			"error", err,
		)
		damage = 1
	}
	e.state.LastOpponentDamage = damage
	e.state.PlayerHP -= damage

	if e.state.PlayerHP <= 0 {
		e.state.PlayerHP = 0
		e.finishLocked(false)
		out := *e.outcome
		e.mu.Unlock()

		e.publish(EventUpdated)
		e.publishEnded(out)
		return
	}
	e.mu.Unlock()

	e.publish(EventUpdated)
	e.schedule(epoch, e.turnReturnDelay, e.returnTurn)
}

// returnTurn gives the turn back to the player: more mana, one draw
func (e *Engine) returnTurn(epoch uint64) {
	e.mu.Lock()
	if epoch != e.epoch || e.state.Phase != PhaseOpponentTurn {
		e.mu.Unlock()
		return
	}

	e.state.Phase = PhasePlayerTurn
	e.state.TurnOwner = SidePlayer
	e.state.ManaCapacity = min(MaxMana, e.state.ManaCapacity+1)
	e.state.ManaAvailable = e.state.ManaCapacity
	e.state.TurnNumber++

	if len(e.inventory) > 0 && len(e.state.Hand) < MaxHandSize {
		roll, err := e.roller.Roll(len(e.inventory))
		if err != nil {
			slog.Warn("Draw roll failed, skipping draw",
				"battle_id", e.state.BattleID,
				"error", err,
			)
		} else {
			e.state.Hand = append(e.state.Hand, HandCard{
				InstanceID: e.idGen.Generate(),
				Item:       e.inventory[roll-1],
			})
		}
	}
	e.mu.Unlock()

	e.publish(EventUpdated)
}

// EndBattle forces the battle to end and returns its outcome. Calling it
// again, or after the battle already ended, returns the recorded outcome.
func (e *Engine) EndBattle(surrendered bool) Outcome {
	e.mu.Lock()
	if e.outcome != nil {
		out := *e.outcome
		e.mu.Unlock()
		return out
	}
	e.finishLocked(surrendered)
	out := *e.outcome
	e.mu.Unlock()

	e.publish(EventUpdated)
	e.publishEnded(out)
	return out
}

// finishLocked records the outcome, cancels timers and moves to Ended
func (e *Engine) finishLocked(surrendered bool) {
	e.cancelPendingLocked()

	var winner Side
	switch {
	case surrendered:
		winner = SideOpponent
	case e.state.PlayerHP <= 0:
		winner = SideOpponent
	case e.state.OpponentHP <= 0:
		winner = SidePlayer
	default:
		winner = SideNone
	}

	e.state.Phase = PhaseEnded
	e.state.Winner = winner
	e.state.Surrendered = surrendered

	out := &Outcome{
		BattleID:    e.state.BattleID,
		Winner:      winner,
		Surrendered: surrendered,
	}
	if winner == SidePlayer {
		out.LevelGained = 1
		reward, err := e.rewarder.Reward()
		if err != nil {
			slog.Error("Failed to generate battle reward",
				"battle_id", e.state.BattleID,
				"error", err,
			)
		}
		out.Reward = reward
	}
	e.outcome = out

	slog.Info("Battle ended",
		"battle_id", e.state.BattleID,
		"player_id", e.id,
		"winner", string(winner),
		"surrendered", surrendered,
		"turns", e.state.TurnNumber,
	)
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Outcome returns the recorded outcome of the last ended battle
func (e *Engine) Outcome() (Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return Outcome{}, false
	}
	return *e.outcome, true
}

// Close cancels pending timers. A closed engine rejects Start.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.cancelPendingLocked()
	e.mu.Unlock()
}

func (e *Engine) cancelPendingLocked() {
	e.epoch++
	for id, cancel := range e.pending {
		cancel()
		delete(e.pending, id)
	}
}

// schedule runs fn(epoch) through the pacer unless the epoch has moved on.
// It must be called without e.mu held: ImmediatePacer runs fn inline.
func (e *Engine) schedule(epoch uint64, d time.Duration, fn func(uint64)) {
	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		return
	}
	id := e.nextID
	e.nextID++
	e.mu.Unlock()

	var fired atomic.Bool
	cancel := e.pacer.After(d, func() {
		fired.Store(true)
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
		fn(epoch)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case epoch != e.epoch:
		cancel()
	case !fired.Load():
		e.pending[id] = cancel
	}
}

func (e *Engine) publish(eventType string) {
	e.publishEvent(events.NewGameEvent(eventType, e, nil))
}

// publishEnded carries the outcome recorded at finish time, since a new
// battle may reset the engine before subscribers run.
func (e *Engine) publishEnded(out Outcome) {
	ev := events.NewGameEvent(EventEnded, e, nil)
	ev.Context().Set(ContextKeyOutcome, out)
	e.publishEvent(ev)
}

func (e *Engine) publishEvent(ev events.Event) {
	if err := e.bus.Publish(context.Background(), ev); err != nil {
		slog.Warn("Failed to publish battle event",
			"event", ev.Type(),
			"player_id", e.id,
			"error", err,
		)
	}
}

// OutcomeFromEvent returns the outcome carried by a battle.ended event
func OutcomeFromEvent(ev events.Event) (Outcome, bool) {
	if ev == nil || ev.Context() == nil {
		return Outcome{}, false
	}
	v, ok := ev.Context().Get(ContextKeyOutcome)
	if !ok {
		return Outcome{}, false
	}
	out, ok := v.(Outcome)
	return out, ok
}
