package v1alpha1

import (
	"context"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/cards"
)

// UpdateLocation records the caller's position and lists nearby cards
func (h *Handler) UpdateLocation(ctx context.Context, req *UpdateLocationRequest) (*UpdateLocationResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.cardService.UpdateLocation(ctx, &cards.UpdateLocationInput{
		UserID:   uid,
		Location: req.Location,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &UpdateLocationResponse{Nearby: out.Nearby}, nil
}

// CollectCard claims a nearby card
func (h *Handler) CollectCard(ctx context.Context, req *CollectCardRequest) (*CollectCardResponse, error) {
	if req.CardID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("card_id is required"))
	}

	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.cardService.Collect(ctx, &cards.CollectInput{
		UserID: uid,
		CardID: req.CardID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &CollectCardResponse{
		Card:        out.Card,
		Experience:  out.Experience,
		Level:       out.Level,
		LeveledUp:   out.LeveledUp,
		SyncPending: out.SyncPending,
	}, nil
}

// ListInventory lists the caller's items
func (h *Handler) ListInventory(ctx context.Context, _ *ListInventoryRequest) (*ListInventoryResponse, error) {
	uid, err := h.authenticate(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.cardService.ListInventory(ctx, &cards.ListInventoryInput{UserID: uid})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListInventoryResponse{Items: out.Items}, nil
}
