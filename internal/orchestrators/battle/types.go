package battle

import "github.com/geocards/geocards-api/internal/battle"

// StartInput defines the request for starting a battle. An empty
// OpponentID fights the default bot.
type StartInput struct {
	UserID     string
	OpponentID string
}

// StartOutput holds the opening state
type StartOutput struct {
	State battle.State
}

// PlayCardInput plays one hand card onto the board at Position
type PlayCardInput struct {
	UserID     string
	HandCardID string
	Position   int
}

// PlayCardOutput reports whether the play was accepted
type PlayCardOutput struct {
	Played bool
	State  battle.State
}

// EndTurnInput passes the turn to the opponent
type EndTurnInput struct {
	UserID string
}

// EndTurnOutput reports whether the turn was passed
type EndTurnOutput struct {
	Accepted bool
	State    battle.State
}

// SurrenderInput ends the battle as a loss
type SurrenderInput struct {
	UserID string
}

// SurrenderOutput carries the recorded outcome
type SurrenderOutput struct {
	Outcome battle.Outcome
	State   battle.State
}

// GetInput defines the request for reading the battle
type GetInput struct {
	UserID string
}

// GetOutput holds the current state and, once ended, the outcome
type GetOutput struct {
	State   battle.State
	Outcome *battle.Outcome
}
