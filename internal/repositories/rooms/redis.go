package rooms

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"
	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	redisclient "github.com/KirkDiggler/skywar-api/internal/redis"
)

const (
	// room:{id} holds the room document
	roomKeyPrefix = "room:"
	// room_code:{code} holds the id of the active room using the code
	codeKeyPrefix = "room_code:"
	// rooms:{status}:{mode} indexes active rooms
	indexKeyPrefix = "rooms:"
	// player_rooms:{identity} indexes a player's active rooms
	playerKeyPrefix = "player_rooms:"

	defaultEndedRetention = 24 * time.Hour
	defaultMaxTxAttempts  = 8

	// Error messages
	errRoomNil      = "room cannot be nil"
	errRoomIDEmpty  = "room ID cannot be empty"
	errCodeEmpty    = "room code cannot be empty"
	errMutateNil    = "mutate function is required"
	errPlayerIDNone = "player ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// EndedRetention is how long an ended room document is kept
	EndedRetention time.Duration
	// MaxTxAttempts bounds optimistic transaction retries in Update
	MaxTxAttempts int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.EndedRetention < 0 {
		vb.Field("EndedRetention", "must not be negative")
	}
	if c.MaxTxAttempts < 0 {
		vb.Field("MaxTxAttempts", "must not be negative")
	}

	return vb.Build()
}

type redisRepository struct {
	client         redisclient.Client
	endedRetention time.Duration
	maxTxAttempts  int
}

// NewRedisRepository creates a new Redis repository for rooms
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	repo := &redisRepository{
		client:         cfg.Client,
		endedRetention: cfg.EndedRetention,
		maxTxAttempts:  cfg.MaxTxAttempts,
	}
	if repo.endedRetention == 0 {
		repo.endedRetention = defaultEndedRetention
	}
	if repo.maxTxAttempts == 0 {
		repo.maxTxAttempts = defaultMaxTxAttempts
	}

	return repo, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func roomKey(id string) string {
	return roomKeyPrefix + id
}

func codeKey(code string) string {
	return codeKeyPrefix + code
}

func indexKey(status entities.Status, mode entities.Mode) string {
	return indexKeyPrefix + string(status) + ":" + string(mode)
}

func playerKey(id string) string {
	return playerKeyPrefix + id
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	room := input.Room
	if room == nil {
		return nil, errors.InvalidArgument(errRoomNil)
	}
	if room.ID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}
	if room.Code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}
	if !room.Status.Active() {
		return nil, errors.InvalidArgumentf("room %s must be created waiting or playing", room.ID)
	}

	reserved, err := r.client.SetNX(ctx, codeKey(room.Code), room.ID, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reserve room code")
	}
	if !reserved {
		return nil, errors.AlreadyExistsf("room code %s is in use", room.Code).
			WithMeta("code", room.Code)
	}

	stored := room.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		r.releaseCode(ctx, room.Code, room.ID)
		return nil, errors.Wrapf(err, "failed to marshal room")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, roomKey(stored.ID), data, 0)
		pipe.SAdd(ctx, indexKey(stored.Status, stored.Mode), stored.ID)
		for _, id := range stored.PlayerIDs() {
			pipe.SAdd(ctx, playerKey(id), stored.ID)
		}
		return nil
	})
	if err != nil {
		r.releaseCode(ctx, room.Code, room.ID)
		return nil, errors.Wrapf(err, "failed to create room")
	}

	slog.Debug("Room stored",
		"room_id", stored.ID,
		"code", stored.Code,
		"mode", stored.Mode,
		"status", stored.Status)

	return &CreateOutput{Room: stored}, nil
}

// releaseCode frees a code reservation if it still belongs to roomID
func (r *redisRepository) releaseCode(ctx context.Context, code, roomID string) {
	held, err := r.client.Get(ctx, codeKey(code)).Result()
	if err != nil || held != roomID {
		return
	}
	if err := r.client.Del(ctx, codeKey(code)).Err(); err != nil {
		slog.Warn("Failed to release room code", "code", code, "room_id", roomID, "error", err)
	}
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	room, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Room: room}, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) load(ctx context.Context, c getter, id string) (*entities.Room, error) {
	data, err := c.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.RoomNotFound(id)
		}
		return nil, errors.Wrapf(err, "failed to get room %s", id)
	}

	var room entities.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal room %s", id)
	}
	return &room, nil
}

func (r *redisRepository) GetByCode(ctx context.Context, input GetByCodeInput) (*GetByCodeOutput, error) {
	if input.Code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	id, err := r.client.Get(ctx, codeKey(input.Code)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("no active room with code %s", input.Code).
				WithMeta("code", input.Code)
		}
		return nil, errors.Wrapf(err, "failed to look up room code")
	}

	room, err := r.load(ctx, r.client, id)
	if err != nil {
		return nil, err
	}

	return &GetByCodeOutput{Room: room}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}
	if input.Mutate == nil {
		return nil, errors.InvalidArgument(errMutateNil)
	}

	keys := []string{roomKey(input.ID)}
	for _, id := range input.Exclusive {
		keys = append(keys, playerKey(id))
	}

	for attempt := 1; attempt <= r.maxTxAttempts; attempt++ {
		var out *UpdateOutput
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			var err error
			out, err = r.apply(ctx, tx, input)
			return err
		}, keys...)

		if err == nil {
			return out, nil
		}
		if !stderrors.Is(err, redis.TxFailedErr) {
			return nil, err
		}

		slog.Debug("Room transaction lost a race, retrying",
			"room_id", input.ID,
			"attempt", attempt)
	}

	return nil, errors.Abortedf("room %s stayed contended for %d attempts", input.ID, r.maxTxAttempts).
		WithMeta("room_id", input.ID)
}

// apply runs inside WATCH; any key change before EXEC fails the transaction
func (r *redisRepository) apply(ctx context.Context, tx *redis.Tx, input UpdateInput) (*UpdateOutput, error) {
	previous, err := r.load(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}
	before, err := json.Marshal(previous)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal room %s", input.ID)
	}

	room := previous.Clone()
	if err := input.Mutate(room); err != nil {
		return nil, err
	}
	if room.ID != previous.ID || room.Code != previous.Code {
		return nil, errors.Internalf("room %s identity cannot change in an update", input.ID)
	}

	after, err := json.Marshal(room)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal room %s", input.ID)
	}
	if bytes.Equal(before, after) {
		return &UpdateOutput{Room: room, Previous: previous, Changed: false}, nil
	}

	if room.Status.Active() {
		for _, id := range input.Exclusive {
			if err := r.checkExclusive(ctx, tx, id, room.ID); err != nil {
				return nil, err
			}
		}
	}

	room.Version = previous.Version + 1
	data, err := json.Marshal(room)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal room %s", input.ID)
	}

	releaseCode := false
	if room.Status == entities.StatusEnded {
		held, err := tx.Get(ctx, codeKey(room.Code)).Result()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return nil, errors.Wrapf(err, "failed to read room code")
		}
		releaseCode = held == room.ID
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		ttl := time.Duration(0)
		if room.Status == entities.StatusEnded {
			ttl = r.endedRetention
		}
		pipe.Set(ctx, roomKey(room.ID), data, ttl)

		if previous.Status != room.Status || previous.Mode != room.Mode {
			if previous.Status.Active() {
				pipe.SRem(ctx, indexKey(previous.Status, previous.Mode), room.ID)
			}
			if room.Status.Active() {
				pipe.SAdd(ctx, indexKey(room.Status, room.Mode), room.ID)
			}
		}

		for _, id := range previous.PlayerIDs() {
			if !room.HasPlayer(id) || !room.Status.Active() {
				pipe.SRem(ctx, playerKey(id), room.ID)
			}
		}
		if room.Status.Active() {
			for _, id := range room.PlayerIDs() {
				pipe.SAdd(ctx, playerKey(id), room.ID)
			}
		}

		if releaseCode {
			pipe.Del(ctx, codeKey(room.Code))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{Room: room, Previous: previous, Changed: true}, nil
}

// checkExclusive fails when playerID sits in an active room other than roomID
func (r *redisRepository) checkExclusive(ctx context.Context, tx *redis.Tx, playerID, roomID string) error {
	ids, err := tx.SMembers(ctx, playerKey(playerID)).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to list rooms for player %s", playerID)
	}

	for _, id := range ids {
		if id == roomID {
			continue
		}
		other, err := r.load(ctx, tx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return err
		}
		if other.Status.Active() && other.HasPlayer(playerID) {
			return errors.PlayerBusy(playerID, other.ID)
		}
	}
	return nil
}

func (r *redisRepository) ListByStatus(ctx context.Context, input ListByStatusInput) (*ListByStatusOutput, error) {
	if !input.Status.Active() {
		return nil, errors.InvalidArgumentf("rooms in status %q are not indexed", input.Status)
	}
	if input.Mode != "" && !input.Mode.Valid() {
		return nil, errors.InvalidArgumentf("unknown mode %q", input.Mode)
	}

	modes := []entities.Mode{input.Mode}
	if input.Mode == "" {
		modes = entities.Modes()
	}

	var ids []string
	for _, mode := range modes {
		members, err := r.client.SMembers(ctx, indexKey(input.Status, mode)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s rooms", input.Status)
		}
		ids = append(ids, members...)
	}

	rooms, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	// the index is written in the same transaction as the document, but a
	// reader may still race a concurrent update between SMEMBERS and MGET
	filtered := rooms[:0]
	for _, room := range rooms {
		if room.Status == input.Status && (input.Mode == "" || room.Mode == input.Mode) {
			filtered = append(filtered, room)
		}
	}

	return &ListByStatusOutput{Rooms: filtered}, nil
}

func (r *redisRepository) ListActiveByPlayer(ctx context.Context, input ListActiveByPlayerInput) (*ListActiveByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDNone)
	}

	ids, err := r.client.SMembers(ctx, playerKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rooms for player %s", input.PlayerID)
	}

	rooms, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	active := rooms[:0]
	for _, room := range rooms {
		if room.Status.Active() && room.HasPlayer(input.PlayerID) {
			active = append(active, room)
		}
	}

	return &ListActiveByPlayerOutput{Rooms: active}, nil
}

// loadMany fetches documents in one MGET, skipping ids whose document is
// gone, and orders them oldest first
func (r *redisRepository) loadMany(ctx context.Context, ids []string) ([]*entities.Room, error) {
	if len(ids) == 0 {
		return []*entities.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load rooms")
	}

	rooms := make([]*entities.Room, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var room entities.Room
		if err := json.Unmarshal([]byte(s), &room); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal room %s", ids[i])
		}
		rooms = append(rooms, &room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	return rooms, nil
}
