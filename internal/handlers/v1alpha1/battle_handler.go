package v1alpha1

import (
	"context"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/battle"
)

// StartBattle starts a battle against the requested opponent
func (h *Handler) StartBattle(ctx context.Context, req *StartBattleRequest) (*BattleResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.Start(ctx, &battle.StartInput{
		UserID:     uid,
		OpponentID: req.OpponentID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &BattleResponse{State: out.State}, nil
}

// PlayCard plays a hand card
func (h *Handler) PlayCard(ctx context.Context, req *PlayCardRequest) (*PlayCardResponse, error) {
	if req.HandCardID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("hand_card_id is required"))
	}

	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.PlayCard(ctx, &battle.PlayCardInput{
		UserID:     uid,
		HandCardID: req.HandCardID,
		Position:   req.Position,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &PlayCardResponse{Played: out.Played, State: out.State}, nil
}

// EndTurn passes the turn to the opponent
func (h *Handler) EndTurn(ctx context.Context, _ *EndTurnRequest) (*EndTurnResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.EndTurn(ctx, &battle.EndTurnInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &EndTurnResponse{Accepted: out.Accepted, State: out.State}, nil
}

// Surrender concedes the battle
func (h *Handler) Surrender(ctx context.Context, _ *SurrenderRequest) (*SurrenderResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.Surrender(ctx, &battle.SurrenderInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SurrenderResponse{Outcome: out.Outcome, State: out.State}, nil
}

// GetBattle reads the caller's battle
func (h *Handler) GetBattle(ctx context.Context, _ *GetBattleRequest) (*GetBattleResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.Get(ctx, &battle.GetInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetBattleResponse{State: out.State, Outcome: out.Outcome}, nil
}
