package rooms_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/redis"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
	"github.com/KirkDiggler/skywar-api/internal/testutils"
)

const testRetention = 2 * time.Hour

type RedisRepositoryTestSuite struct {
	suite.Suite
	client redis.Client
	mr     *miniredis.Miniredis
	repo   rooms.Repository
	ctx    context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr = testutils.CreateTestRedis(s.T())
	s.ctx = context.Background()

	var err error
	s.repo, err = rooms.NewRedisRepository(&rooms.Config{
		Client:         s.client,
		EndedRetention: testRetention,
		MaxTxAttempts:  50,
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) human(id string, role entities.Role) entities.Player {
	return testutils.NewPlayer(id, role, entities.KindHuman, testutils.GroupNosesUp)
}

func (s *RedisRepositoryTestSuite) createWaiting(id, code string, mode entities.Mode) *entities.Room {
	out, err := s.repo.Create(s.ctx, rooms.CreateInput{
		Room: testutils.NewWaitingRoom(id, code, mode, s.human("alice", entities.RoleFirst)),
	})
	s.Require().NoError(err)
	return out.Room
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := rooms.NewRedisRepository(&rooms.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = rooms.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created := s.createWaiting("room_1", "123456", entities.ModePVP)
	s.Equal(int64(1), created.Version)

	out, err := s.repo.Get(s.ctx, rooms.GetInput{ID: "room_1"})
	s.Require().NoError(err)
	s.Equal("123456", out.Room.Code)
	s.Equal(entities.StatusWaiting, out.Room.Status)
	s.Len(out.Room.Players, 1)
	s.Len(out.Room.Players[0].Board, entities.CellCount)
	s.True(out.Room.CreatedAt.Equal(testutils.TestTime))

	held, err := s.mr.Get("room_code:123456")
	s.Require().NoError(err)
	s.Equal("room_1", held)
	s.True(s.mr.Exists("rooms:waiting:pvp"))
	isMember, err := s.mr.SIsMember("player_rooms:alice", "room_1")
	s.Require().NoError(err)
	s.True(isMember)
}

func (s *RedisRepositoryTestSuite) TestCreateRejectsCodeInUse() {
	s.createWaiting("room_1", "123456", entities.ModeFriendInvite)

	_, err := s.repo.Create(s.ctx, rooms.CreateInput{
		Room: testutils.NewWaitingRoom("room_2", "123456", entities.ModeFriendInvite, s.human("bob", entities.RoleFirst)),
	})
	s.True(errors.IsAlreadyExists(err))
	s.False(s.mr.Exists("room:room_2"))
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	testCases := []struct {
		name string
		room *entities.Room
	}{
		{"nil room", nil},
		{"missing id", &entities.Room{Code: "1", Status: entities.StatusWaiting}},
		{"missing code", &entities.Room{ID: "r", Status: entities.StatusWaiting}},
		{"ended", &entities.Room{ID: "r", Code: "1", Status: entities.StatusEnded}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Create(s.ctx, rooms.CreateInput{Room: tc.room})
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, rooms.GetInput{ID: "nope"})
	s.True(errors.IsNotFound(err))
	s.True(errors.HasReason(err, errors.ReasonRoomNotFound))
}

func (s *RedisRepositoryTestSuite) TestGetByCode() {
	s.createWaiting("room_1", "654321", entities.ModeFriendInvite)

	out, err := s.repo.GetByCode(s.ctx, rooms.GetByCodeInput{Code: "654321"})
	s.Require().NoError(err)
	s.Equal("room_1", out.Room.ID)

	_, err = s.repo.GetByCode(s.ctx, rooms.GetByCodeInput{Code: "000000"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateJoinMovesIndexes() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	out, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "room_1",
		Mutate: func(room *entities.Room) error {
			room.Players = append(room.Players, s.human("bob", entities.RoleSecond))
			room.Status = entities.StatusPlaying
			room.CurrentPlayer = "alice"
			return nil
		},
	})
	s.Require().NoError(err)
	s.True(out.Changed)
	s.Equal(int64(2), out.Room.Version)
	s.Equal(entities.StatusWaiting, out.Previous.Status)

	waiting, err := s.repo.ListByStatus(s.ctx, rooms.ListByStatusInput{Status: entities.StatusWaiting})
	s.Require().NoError(err)
	s.Empty(waiting.Rooms)

	playing, err := s.repo.ListByStatus(s.ctx, rooms.ListByStatusInput{Status: entities.StatusPlaying, Mode: entities.ModePVP})
	s.Require().NoError(err)
	s.Require().Len(playing.Rooms, 1)
	s.Equal("alice", playing.Rooms[0].CurrentPlayer)

	bobs, err := s.repo.ListActiveByPlayer(s.ctx, rooms.ListActiveByPlayerInput{PlayerID: "bob"})
	s.Require().NoError(err)
	s.Len(bobs.Rooms, 1)
}

func (s *RedisRepositoryTestSuite) TestUpdateMutateErrorWritesNothing() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	_, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "room_1",
		Mutate: func(room *entities.Room) error {
			room.Status = entities.StatusPlaying
			return errors.RoomFull(room.ID)
		},
	})
	s.True(errors.HasReason(err, errors.ReasonRoomFull))

	out, err := s.repo.Get(s.ctx, rooms.GetInput{ID: "room_1"})
	s.Require().NoError(err)
	s.Equal(entities.StatusWaiting, out.Room.Status)
	s.Equal(int64(1), out.Room.Version)
}

func (s *RedisRepositoryTestSuite) TestUpdateExclusiveRejectsBusyPlayer() {
	_, err := s.repo.Create(s.ctx, rooms.CreateInput{
		Room: testutils.NewPlayingRoom("busy", "654321", entities.ModeAI,
			s.human("carol", entities.RoleFirst),
			testutils.NewPlayer("ai_1", entities.RoleSecond, entities.KindAI, testutils.GroupFirst)),
	})
	s.Require().NoError(err)
	s.createWaiting("room_1", "123456", entities.ModePVP)

	seatAI := func(aiID string) (*rooms.UpdateOutput, error) {
		return s.repo.Update(s.ctx, rooms.UpdateInput{
			ID:        "room_1",
			Exclusive: []string{aiID},
			Mutate: func(room *entities.Room) error {
				room.Players = append(room.Players,
					testutils.NewPlayer(aiID, entities.RoleSecond, entities.KindAI, testutils.GroupFirst))
				room.Status = entities.StatusPlaying
				room.CurrentPlayer = "alice"
				return nil
			},
		})
	}

	_, err = seatAI("ai_1")
	s.True(errors.HasReason(err, errors.ReasonPlayerBusy))

	got, err := s.repo.Get(s.ctx, rooms.GetInput{ID: "room_1"})
	s.Require().NoError(err)
	s.Equal(entities.StatusWaiting, got.Room.Status)
	s.Equal(int64(1), got.Room.Version)

	out, err := seatAI("ai_2")
	s.Require().NoError(err)
	s.Equal(entities.StatusPlaying, out.Room.Status)
}

func (s *RedisRepositoryTestSuite) TestUpdateExclusiveIgnoresEndedRooms() {
	_, err := s.repo.Create(s.ctx, rooms.CreateInput{
		Room: testutils.NewPlayingRoom("old", "654321", entities.ModeAI,
			s.human("carol", entities.RoleFirst),
			testutils.NewPlayer("ai_1", entities.RoleSecond, entities.KindAI, testutils.GroupFirst)),
	})
	s.Require().NoError(err)
	_, err = s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "old",
		Mutate: func(room *entities.Room) error {
			room.End(entities.EndReasonCancelled, "", testutils.TestTime)
			return nil
		},
	})
	s.Require().NoError(err)
	s.createWaiting("room_1", "123456", entities.ModePVP)

	_, err = s.repo.Update(s.ctx, rooms.UpdateInput{
		ID:        "room_1",
		Exclusive: []string{"ai_1"},
		Mutate: func(room *entities.Room) error {
			room.Players = append(room.Players,
				testutils.NewPlayer("ai_1", entities.RoleSecond, entities.KindAI, testutils.GroupFirst))
			room.Status = entities.StatusPlaying
			return nil
		},
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestUpdateWithoutChangeSkipsWrite() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	out, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID:     "room_1",
		Mutate: func(*entities.Room) error { return nil },
	})
	s.Require().NoError(err)
	s.False(out.Changed)
	s.Equal(int64(1), out.Room.Version)
}

func (s *RedisRepositoryTestSuite) TestUpdateMissingRoom() {
	called := false
	_, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID:     "nope",
		Mutate: func(*entities.Room) error { called = true; return nil },
	})
	s.True(errors.HasReason(err, errors.ReasonRoomNotFound))
	s.False(called)
}

func (s *RedisRepositoryTestSuite) TestUpdateRejectsIdentityChange() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	_, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "room_1",
		Mutate: func(room *entities.Room) error {
			room.Code = "999999"
			return nil
		},
	})
	s.True(errors.IsInternal(err))
}

func (s *RedisRepositoryTestSuite) TestEndReleasesCodeAndSetsRetention() {
	s.createWaiting("room_1", "123456", entities.ModeFriendInvite)

	out, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "room_1",
		Mutate: func(room *entities.Room) error {
			room.End(entities.EndReasonCancelled, "", testutils.TestTime)
			return nil
		},
	})
	s.Require().NoError(err)
	s.Equal(entities.StatusEnded, out.Room.Status)

	s.False(s.mr.Exists("room_code:123456"))
	s.Equal(testRetention, s.mr.TTL("room:room_1"))

	active, err := s.repo.ListActiveByPlayer(s.ctx, rooms.ListActiveByPlayerInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Empty(active.Rooms)

	// the code is free for a new room
	s.createWaiting("room_2", "123456", entities.ModeFriendInvite)

	s.mr.FastForward(testRetention + time.Second)
	_, err = s.repo.Get(s.ctx, rooms.GetInput{ID: "room_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateRetriesAfterConcurrentWrite() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	calls := 0
	out, err := s.repo.Update(s.ctx, rooms.UpdateInput{
		ID: "room_1",
		Mutate: func(room *entities.Room) error {
			calls++
			if calls == 1 {
				// another writer commits between our read and our EXEC
				other := room.Clone()
				other.AttackCount = 5
				other.Version = room.Version + 1
				data, err := json.Marshal(other)
				s.Require().NoError(err)
				s.Require().NoError(s.client.Set(s.ctx, "room:room_1", data, 0).Err())
			}
			room.AttackCount++
			return nil
		},
	})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.Equal(6, out.Room.AttackCount)
	s.Equal(int64(3), out.Room.Version)
}

func (s *RedisRepositoryTestSuite) TestConcurrentUpdatesAreSerialized() {
	s.createWaiting("room_1", "123456", entities.ModePVP)

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Update(s.ctx, rooms.UpdateInput{
				ID: "room_1",
				Mutate: func(room *entities.Room) error {
					room.AttackCount++
					return nil
				},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	out, err := s.repo.Get(s.ctx, rooms.GetInput{ID: "room_1"})
	s.Require().NoError(err)
	s.Equal(writers, out.Room.AttackCount)
	s.Equal(int64(writers+1), out.Room.Version)
}

func (s *RedisRepositoryTestSuite) TestListByStatusOrderAndFilter() {
	older := testutils.NewWaitingRoom("room_b", "111111", entities.ModePVP, s.human("alice", entities.RoleFirst))
	older.CreatedAt = testutils.TestTime.Add(-time.Minute)
	newer := testutils.NewWaitingRoom("room_a", "222222", entities.ModePVP, s.human("bob", entities.RoleFirst))
	invite := testutils.NewWaitingRoom("room_c", "333333", entities.ModeFriendInvite, s.human("carol", entities.RoleFirst))

	for _, room := range []*entities.Room{newer, older, invite} {
		_, err := s.repo.Create(s.ctx, rooms.CreateInput{Room: room})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListByStatus(s.ctx, rooms.ListByStatusInput{Status: entities.StatusWaiting, Mode: entities.ModePVP})
	s.Require().NoError(err)
	s.Require().Len(out.Rooms, 2)
	s.Equal("room_b", out.Rooms[0].ID)
	s.Equal("room_a", out.Rooms[1].ID)

	all, err := s.repo.ListByStatus(s.ctx, rooms.ListByStatusInput{Status: entities.StatusWaiting})
	s.Require().NoError(err)
	s.Len(all.Rooms, 3)

	_, err = s.repo.ListByStatus(s.ctx, rooms.ListByStatusInput{Status: entities.StatusEnded})
	s.True(errors.IsInvalidArgument(err))
}
