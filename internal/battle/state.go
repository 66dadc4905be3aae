package battle

import "github.com/geocards/geocards-api/internal/entities"

// Phase is the engine state
type Phase string

// Phases. Ended is terminal until the next Start.
const (
	PhaseNotStarted   Phase = "not_started"
	PhasePlayerTurn   Phase = "player_turn"
	PhaseOpponentTurn Phase = "opponent_turn"
	PhaseEnded        Phase = "ended"
)

// Side identifies a battle participant
type Side string

// Sides. SideNone is used for "no winner".
const (
	SideNone     Side = ""
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Battle limits
const (
	MaxHP           = 30
	StartingMana    = 1
	MaxMana         = 10
	OpeningHandSize = 3
	MaxHandSize     = 10
)

// HandCard is one inventory item dealt into a battle. The instance id is
// unique within the battle; draws are with replacement so the same item
// can appear more than once.
type HandCard struct {
	InstanceID string                  `json:"instanceId"`
	Item       *entities.InventoryItem `json:"item"`
}

// State is a snapshot of one battle
type State struct {
	BattleID      string     `json:"battleId"`
	OpponentID    string     `json:"opponentId"`
	Phase         Phase      `json:"phase"`
	TurnOwner     Side       `json:"turnOwner"`
	PlayerHP      int        `json:"playerHp"`
	OpponentHP    int        `json:"opponentHp"`
	ManaCapacity  int        `json:"manaCapacity"`
	ManaAvailable int        `json:"manaAvailable"`
	Hand          []HandCard `json:"hand"`
	Board         []HandCard `json:"board"`
	TurnNumber    int        `json:"turnNumber"`
	Winner        Side       `json:"winner"`
	Surrendered   bool       `json:"surrendered"`

	// LastOpponentDamage is what the scripted opponent dealt on its most
	// recent turn
	LastOpponentDamage int `json:"lastOpponentDamage"`
}

// Clone returns a deep copy. Inventory items are immutable and shared.
func (s State) Clone() State {
	out := s
	out.Hand = append([]HandCard(nil), s.Hand...)
	out.Board = append([]HandCard(nil), s.Board...)
	return out
}

// Terminal reports whether the battle is over
func (s State) Terminal() bool {
	return s.Phase == PhaseEnded
}

// Outcome is recorded once when a battle ends
type Outcome struct {
	BattleID    string                  `json:"battleId"`
	Winner      Side                    `json:"winner"`
	Surrendered bool                    `json:"surrendered"`
	LevelGained int                     `json:"levelGained"`
	Reward      *entities.InventoryItem `json:"reward,omitempty"`
}
