package errors

// ReasonKey is the metadata key holding a domain Reason
const ReasonKey = "reason"

// Reason names a battle-domain failure more precisely than its Code does.
// Several reasons share CodeFailedPrecondition; clients branch on the reason.
type Reason string

// Battle room reasons
const (
	ReasonRoomNotFound    Reason = "room_not_found"
	ReasonRoomNotPlaying  Reason = "room_not_playing"
	ReasonNotYourTurn     Reason = "not_your_turn"
	ReasonNotInRoom       Reason = "not_in_room"
	ReasonAlreadyAttacked Reason = "already_attacked"
	ReasonRoomFull        Reason = "room_full"
	ReasonItemRequired    Reason = "item_required"
	ReasonCodeExhausted   Reason = "code_exhausted"
	ReasonRoomExpired     Reason = "room_expired"
	ReasonUnknownShape    Reason = "unknown_shape"
	ReasonInvalidCells    Reason = "invalid_cells"
	ReasonTurnChanged     Reason = "turn_changed"
	ReasonTurnNotExpired  Reason = "turn_not_expired"
	ReasonNoAIAvailable   Reason = "no_ai_available"
	ReasonPlayerBusy      Reason = "player_busy"
)

// WithReason tags the error with a domain reason
func (e *Error) WithReason(reason Reason) *Error {
	return e.WithMeta(ReasonKey, string(reason))
}

// GetReason extracts the domain reason from an error, or "" if none
func GetReason(err error) Reason {
	meta := GetMeta(err)
	if meta == nil {
		return ""
	}
	if r, ok := meta[ReasonKey].(string); ok {
		return Reason(r)
	}
	return ""
}

// HasReason reports whether err carries the given reason
func HasReason(err error, reason Reason) bool {
	return GetReason(err) == reason
}

// RoomNotFound is returned when no room document exists for the id
func RoomNotFound(roomID string) *Error {
	return NotFoundf("room %s not found", roomID).
		WithReason(ReasonRoomNotFound).
		WithMeta("room_id", roomID)
}

// RoomNotPlaying is returned when a move targets a room outside PLAYING
func RoomNotPlaying(roomID, status string) *Error {
	return FailedPreconditionf("room %s is %s", roomID, status).
		WithReason(ReasonRoomNotPlaying).
		WithMeta("room_id", roomID).
		WithMeta("status", status)
}

// NotYourTurn is returned when the actor does not own the current turn
func NotYourTurn(roomID, actor string) *Error {
	return FailedPreconditionf("it is not %s's turn", actor).
		WithReason(ReasonNotYourTurn).
		WithMeta("room_id", roomID).
		WithMeta("actor", actor)
}

// AlreadyAttacked is returned when a target cell is already resolved
func AlreadyAttacked(cell int) *Error {
	return FailedPreconditionf("cell %d was already attacked", cell).
		WithReason(ReasonAlreadyAttacked).
		WithMeta("cell", cell)
}

// RoomFull is returned when a join loses the race for the second seat
func RoomFull(roomID string) *Error {
	return FailedPreconditionf("room %s is full", roomID).
		WithReason(ReasonRoomFull).
		WithMeta("room_id", roomID)
}

// PlayerBusy is returned when a player would sit in a second live room
func PlayerBusy(playerID, roomID string) *Error {
	return FailedPreconditionf("%s is already playing in room %s", playerID, roomID).
		WithReason(ReasonPlayerBusy).
		WithMeta("player_id", playerID).
		WithMeta("room_id", roomID)
}

// ItemRequired is returned when an action needs an item the actor does not hold
func ItemRequired(itemID string) *Error {
	return FailedPreconditionf("item %s is required", itemID).
		WithReason(ReasonItemRequired).
		WithMeta("item_id", itemID)
}

// NotInRoom is returned when the actor is not seated in the room
func NotInRoom(roomID, actor string) *Error {
	return FailedPreconditionf("%s is not a player in room %s", actor, roomID).
		WithReason(ReasonNotInRoom).
		WithMeta("room_id", roomID).
		WithMeta("actor", actor)
}

// RoomExpired is returned when no active room holds a join code
func RoomExpired(code string) *Error {
	return FailedPreconditionf("room with code %s has ended or expired", code).
		WithReason(ReasonRoomExpired).
		WithMeta("code", code)
}

// CodeExhausted is returned when every drawn join code was taken.
// The caller should retry the whole operation.
func CodeExhausted(attempts int) *Error {
	return ResourceExhaustedf("no free room code after %d attempts", attempts).
		WithReason(ReasonCodeExhausted).
		WithMeta("attempts", attempts)
}

// TurnChanged is returned when a room moved on since the caller observed it
func TurnChanged(roomID string, observed, actual int) *Error {
	return FailedPreconditionf("room %s is at attack %d, observed %d", roomID, actual, observed).
		WithReason(ReasonTurnChanged).
		WithMeta("room_id", roomID).
		WithMeta("observed_attack_count", observed).
		WithMeta("attack_count", actual)
}

// TurnNotExpired is returned when a forced move arrives before the turn timed out
func TurnNotExpired(roomID string) *Error {
	return FailedPreconditionf("turn in room %s has not timed out", roomID).
		WithReason(ReasonTurnNotExpired).
		WithMeta("room_id", roomID)
}

// NoAIAvailable is returned while every AI identity is busy
func NoAIAvailable(roomID string) *Error {
	return Unavailablef("no AI opponent available for room %s", roomID).
		WithReason(ReasonNoAIAvailable).
		WithMeta("room_id", roomID)
}
