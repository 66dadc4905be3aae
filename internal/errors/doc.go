// Package errors provides coded errors for the geocards API.
//
// Every failure in the service falls into one of two classes:
//
//   - a rejected player action (bad input, wrong turn, not in a guild):
//     InvalidArgument, FailedPrecondition, NotFound, AlreadyExists,
//     PermissionDenied, Unauthenticated. The message is shown to the player.
//   - a collaborator fault (document store, identity provider):
//     Unavailable or Internal. It is logged where the call is made and the
//     player gets a generic message from UserMessage.
//
// Creating and wrapping:
//
//	err := errors.NotFound("card not found").WithMeta("card_id", id)
//	if err := store.Set(ctx, path, v); err != nil {
//	    return errors.Wrap(err, "failed to save profile")
//	}
//
// Validation:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// Handlers convert with ToGRPCError at the transport boundary. The battle
// engine and geo index never return errors of their own.
package errors
