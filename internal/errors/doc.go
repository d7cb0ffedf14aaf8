// Package errors provides structured errors for the skywar battle service.
//
// Every error carries a Code that maps onto a gRPC status code. Battle rules
// failures additionally carry a Reason in their metadata so clients can tell
// "not your turn" from "room already ended" without parsing messages.
//
// # Creating errors
//
//	err := errors.InvalidArgumentf("cell %d is off the board", cell)
//	err := errors.NotYourTurn(roomID, actor)
//
// # Checking errors
//
//	if errors.HasReason(err, errors.ReasonRoomFull) {
//	    // fall back to creating a room
//	}
//
// errors.Is matches on code, and also on reason when the target has one:
//
//	errors.Is(err, errors.New(errors.CodeFailedPrecondition, "").WithReason(errors.ReasonNotYourTurn))
//
// # Layer guidelines
//
// Repositories return NotFound and AlreadyExists. Orchestrators validate input
// (InvalidArgument), enforce room rules (FailedPrecondition with a Reason) and
// wrap repository errors. Handlers convert with ToGRPCError, which ships the
// metadata as a google.protobuf.Struct status detail.
package errors
