package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/formation"
	notifiermock "github.com/KirkDiggler/skywar-api/internal/notifier/mock"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/skywar-api/internal/pkg/clock"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
	"github.com/KirkDiggler/skywar-api/internal/repositories/inventory"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
	"github.com/KirkDiggler/skywar-api/internal/testutils"
)

const (
	roomID      = "room_1"
	roomCode    = "100001"
	turnTimeout = 30 * time.Second
)

type scheduledTask struct {
	delay time.Duration
	task  func()
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockNotifier  *notifiermock.MockNotifier
	roomRepo      rooms.Repository
	inventoryRepo inventory.Repository
	now           time.Time
	scheduled     []scheduledTask
	orchestrator  battle.Service
	ctx           context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockNotifier = notifiermock.NewMockNotifier(s.ctrl)
	s.ctx = context.Background()
	s.now = testutils.TestTime.Add(time.Minute)
	s.scheduled = nil

	client, _ := testutils.CreateTestRedis(s.T())

	var err error
	s.roomRepo, err = rooms.NewRedisRepository(&rooms.Config{Client: client})
	s.Require().NoError(err)

	s.inventoryRepo, err = inventory.NewRedisRepository(&inventory.Config{Client: client})
	s.Require().NoError(err)

	eng, err := engine.New(&engine.Config{Catalog: formation.New()})
	s.Require().NoError(err)

	s.orchestrator, err = battle.NewOrchestrator(&battle.Config{
		RoomRepo:      s.roomRepo,
		InventoryRepo: s.inventoryRepo,
		Engine:        eng,
		Notifier:      s.mockNotifier,
		// every draw takes the lowest option: the first EMPTY cell, the shortest delay
		Random:      random.NewSequence(0),
		Clock:       clock.Func(func() time.Time { return s.now }),
		TurnTimeout: turnTimeout,
		Schedule: func(delay time.Duration, task func()) {
			s.scheduled = append(s.scheduled, scheduledTask{delay: delay, task: task})
		},
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) human(id string, role entities.Role, items ...entities.ItemID) entities.Player {
	return testutils.NewPlayer(id, role, entities.KindHuman, testutils.GroupNosesUp, items...)
}

func (s *OrchestratorTestSuite) ai(id string, role entities.Role) entities.Player {
	return testutils.NewPlayer(id, role, entities.KindAI, testutils.GroupNosesUp)
}

func (s *OrchestratorTestSuite) createRoom(room *entities.Room) *entities.Room {
	out, err := s.roomRepo.Create(s.ctx, rooms.CreateInput{Room: room})
	s.Require().NoError(err)
	return out.Room
}

func (s *OrchestratorTestSuite) createPVP(first, second entities.Player) *entities.Room {
	return s.createRoom(testutils.NewPlayingRoom(roomID, roomCode, entities.ModePVP, first, second))
}

func (s *OrchestratorTestSuite) getRoom() *entities.Room {
	out, err := s.roomRepo.Get(s.ctx, rooms.GetInput{ID: roomID})
	s.Require().NoError(err)
	return out.Room
}

func (s *OrchestratorTestSuite) board(room *entities.Room, playerID string) entities.Board {
	p, ok := room.Player(playerID)
	s.Require().True(ok)
	return p.Board
}

func (s *OrchestratorTestSuite) attack(playerID string, cells ...int) (*battle.SubmitAttackOutput, error) {
	return s.orchestrator.SubmitAttack(s.ctx, &battle.SubmitAttackInput{
		PlayerID: playerID,
		RoomID:   roomID,
		Cells:    cells,
	})
}

func (s *OrchestratorTestSuite) grant(playerID string, item entities.ItemID) {
	_, err := s.inventoryRepo.Grant(s.ctx, inventory.GrantInput{PlayerID: playerID, ItemID: item, Count: 1})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) balance(playerID string, item entities.ItemID) int64 {
	out, err := s.inventoryRepo.Loadout(s.ctx, inventory.LoadoutInput{PlayerID: playerID})
	s.Require().NoError(err)
	return out.Balances[item]
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	_, err := battle.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = battle.NewOrchestrator(&battle.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestHeadHitCountsTowardWin() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))

	out, err := s.attack("alice", 7)
	s.Require().NoError(err)

	result := out.Result
	s.Equal(entities.CellHeadHit, result.Outcomes[0].State)
	s.Equal(1, result.HeadsHit)
	s.False(result.Ended)
	s.Nil(out.AIMove)

	room := s.getRoom()
	s.Equal(entities.CellHeadHit, s.board(room, "bob").State(7))
	s.Equal("bob", room.CurrentPlayer)
	s.Equal(1, room.AttackCount)
	s.True(room.LastMoveAt.Equal(s.now))

	// untouched aircraft: the head shot is a one-hit kill
	s.Require().Len(room.Events, 1)
	s.Equal(entities.EventOneHitKill, room.Events[0].Type)
	s.Equal("alice", room.Events[0].Attacker)
}

func (s *OrchestratorTestSuite) TestFirstHitShieldDodgesThenHeadHits() {
	s.grant("bob", entities.ItemFirstHitShield)
	s.createPVP(
		s.human("alice", entities.RoleFirst),
		s.human("bob", entities.RoleSecond, entities.ItemFirstHitShield),
	)

	out, err := s.attack("alice", 7)
	s.Require().NoError(err)
	s.Equal(entities.ItemFirstHitShield, out.Result.ShieldUsed)
	s.Equal(0, out.Result.HeadsHit)

	room := s.getRoom()
	s.Equal(entities.CellDodged, s.board(room, "bob").State(7))
	bob, _ := room.Player("bob")
	s.False(bob.HasItem(entities.ItemFirstHitShield))
	s.Equal(int64(0), s.balance("bob", entities.ItemFirstHitShield))
	s.Require().Len(room.Events, 1)
	s.Equal(entities.EventHeadDodge, room.Events[0].Type)

	_, err = s.attack("bob", 1)
	s.Require().NoError(err)

	out, err = s.attack("alice", 7)
	s.Require().NoError(err)
	s.Empty(out.Result.ShieldUsed)
	s.Equal(entities.CellHeadHit, s.board(s.getRoom(), "bob").State(7))
	s.Equal(1, out.Result.HeadsHit)
}

func (s *OrchestratorTestSuite) TestNotYourTurn() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))
	before := s.getRoom()

	_, err := s.attack("bob", 7)
	s.True(errors.HasReason(err, errors.ReasonNotYourTurn))
	s.Equal(before.Version, s.getRoom().Version)
}

func (s *OrchestratorTestSuite) TestStrangerIsNotInRoom() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))

	_, err := s.attack("mallory", 7)
	s.True(errors.HasReason(err, errors.ReasonNotInRoom))
}

func (s *OrchestratorTestSuite) TestAlreadyAttackedLeavesBoardUnchanged() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))

	_, err := s.attack("alice", 1)
	s.Require().NoError(err)
	_, err = s.attack("bob", 1)
	s.Require().NoError(err)

	before := s.getRoom()
	_, err = s.attack("alice", 1)
	s.True(errors.HasReason(err, errors.ReasonAlreadyAttacked))

	after := s.getRoom()
	s.Equal(before.Version, after.Version)
	s.Equal(s.board(before, "bob"), s.board(after, "bob"))
	s.Equal("alice", after.CurrentPlayer)
}

func (s *OrchestratorTestSuite) TestInvalidCells() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))

	_, err := s.attack("alice", 145)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.attack("alice")
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestDoubleShotRequiresItem() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))

	_, err := s.attack("alice", 1, 2)
	s.True(errors.HasReason(err, errors.ReasonItemRequired))
	s.Equal(0, s.getRoom().AttackCount)
}

func (s *OrchestratorTestSuite) TestDoubleShotConsumesItem() {
	s.grant("alice", entities.ItemDoubleShot)
	s.createPVP(
		s.human("alice", entities.RoleFirst, entities.ItemDoubleShot),
		s.human("bob", entities.RoleSecond),
	)

	out, err := s.attack("alice", 1, 2)
	s.Require().NoError(err)
	s.True(out.Result.DoubleShot)
	s.Require().Len(out.Result.Outcomes, 2)
	s.Equal(entities.CellMiss, out.Result.Outcomes[0].State)
	s.Equal(entities.CellMiss, out.Result.Outcomes[1].State)

	room := s.getRoom()
	alice, _ := room.Player("alice")
	s.Equal([]entities.ItemID{entities.ItemDoubleShot}, alice.UsedItems())
	s.Equal(int64(0), s.balance("alice", entities.ItemDoubleShot))

	_, err = s.attack("bob", 1)
	s.Require().NoError(err)

	_, err = s.attack("alice", 3, 4)
	s.True(errors.HasReason(err, errors.ReasonItemRequired))
}

func (s *OrchestratorTestSuite) TestAIRoomRejectsDoubleShot() {
	s.createRoom(testutils.NewPlayingRoom(roomID, roomCode, entities.ModeAI,
		s.human("alice", entities.RoleFirst, entities.ItemDoubleShot),
		s.ai("ai_1", entities.RoleSecond),
	))

	_, err := s.attack("alice", 1, 2)
	s.True(errors.IsInvalidArgument(err))
	s.True(errors.HasReason(err, errors.ReasonInvalidCells))
}

func (s *OrchestratorTestSuite) TestAIRoomRepliesImmediately() {
	s.createRoom(testutils.NewPlayingRoom(roomID, roomCode, entities.ModeAI,
		s.human("alice", entities.RoleFirst),
		s.ai("ai_1", entities.RoleSecond),
	))

	out, err := s.attack("alice", 7)
	s.Require().NoError(err)
	s.Require().NotNil(out.AIMove)
	s.Equal("ai_1", out.AIMove.Attacker)
	s.Equal([]int{1}, out.AIMove.Cells)
	s.Empty(s.scheduled)

	room := s.getRoom()
	s.Equal("alice", room.CurrentPlayer)
	s.Equal(2, room.AttackCount)
	s.Equal(entities.CellMiss, s.board(room, "alice").State(1))
}

func (s *OrchestratorTestSuite) TestPVPAIReplyIsScheduled() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.ai("ai_1", entities.RoleSecond))

	out, err := s.attack("alice", 1)
	s.Require().NoError(err)
	s.Nil(out.AIMove)
	s.Require().Len(s.scheduled, 1)
	s.Equal(battle.DefaultAIMoveDelayMin, s.scheduled[0].delay)
	s.Equal("ai_1", s.getRoom().CurrentPlayer)

	s.scheduled[0].task()
	room := s.getRoom()
	s.Equal("alice", room.CurrentPlayer)
	s.Equal(2, room.AttackCount)

	// a replayed reply sees the turn has moved on
	s.scheduled[0].task()
	s.Equal(2, s.getRoom().AttackCount)
}

func (s *OrchestratorTestSuite) TestThirdHeadWinsAndNotifies() {
	bob := s.human("bob", entities.RoleSecond)
	bob.Board[51-1] = entities.CellHeadHit
	bob.Board[58-1] = entities.CellHeadHit
	s.createPVP(s.human("alice", entities.RoleFirst), bob)

	var summary *entities.RoomSummary
	s.mockNotifier.EXPECT().
		OnRoomEnded(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sum *entities.RoomSummary) error {
			summary = sum
			return nil
		})

	out, err := s.attack("alice", 7)
	s.Require().NoError(err)
	s.True(out.Result.Ended)
	s.Equal("alice", out.Result.Winner)
	s.Equal(3, out.Result.HeadsHit)

	room := s.getRoom()
	s.Equal(entities.StatusEnded, room.Status)
	s.Equal(entities.EndReasonWin, room.EndReason)
	s.Equal("alice", room.Winner)

	s.Require().NotNil(summary)
	s.Equal("alice", summary.Winner)
	s.Equal("bob", summary.Loser)
	s.Equal(time.Minute, summary.Duration)
	alice, ok := summary.Stats("alice")
	s.Require().True(ok)
	s.True(alice.Won)
	s.Equal(3, alice.HeadsDestroyed)

	_, err = s.attack("bob", 1)
	s.True(errors.HasReason(err, errors.ReasonRoomNotPlaying))
}

func (s *OrchestratorTestSuite) TestNotifierFailureKeepsResult() {
	bob := s.human("bob", entities.RoleSecond)
	bob.Board[51-1] = entities.CellHeadHit
	bob.Board[58-1] = entities.CellHeadHit
	s.createPVP(s.human("alice", entities.RoleFirst), bob)

	s.mockNotifier.EXPECT().
		OnRoomEnded(gomock.Any(), gomock.Any()).
		Return(errors.Unavailable("ledger down"))

	out, err := s.attack("alice", 7)
	s.Require().NoError(err)
	s.True(out.Result.Ended)
	s.Equal(entities.StatusEnded, s.getRoom().Status)
}

func (s *OrchestratorTestSuite) TestForceTimeoutAttack() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))
	observed := 0

	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{
		RoomID:              roomID,
		ObservedAttackCount: &observed,
	})
	s.Require().NoError(err)
	s.True(out.Applied)
	s.True(out.Result.Forced)
	s.Equal("alice", out.Result.Attacker)
	s.Equal([]int{1}, out.Result.Cells)

	room := s.getRoom()
	s.Equal("bob", room.CurrentPlayer)
	s.Equal(entities.CellMiss, s.board(room, "bob").State(1))
}

func (s *OrchestratorTestSuite) TestForceTimeoutBeforeExpiry() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))
	s.now = testutils.TestTime.Add(10 * time.Second)

	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{RoomID: roomID})
	s.Require().NoError(err)
	s.False(out.Applied)
	s.Equal(string(errors.ReasonTurnNotExpired), out.Reason)
	s.Equal(0, s.getRoom().AttackCount)
}

func (s *OrchestratorTestSuite) TestForceTimeoutAfterTurnChanged() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))
	_, err := s.attack("alice", 1)
	s.Require().NoError(err)
	s.now = s.now.Add(time.Hour)
	observed := 0

	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{
		RoomID:              roomID,
		ObservedAttackCount: &observed,
	})
	s.Require().NoError(err)
	s.False(out.Applied)
	s.Equal(string(errors.ReasonTurnChanged), out.Reason)
	s.Equal(1, s.getRoom().AttackCount)
}

func (s *OrchestratorTestSuite) TestForceTimeoutOnEndedRoom() {
	s.createPVP(s.human("alice", entities.RoleFirst), s.human("bob", entities.RoleSecond))
	s.mockNotifier.EXPECT().OnRoomEnded(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{RoomID: roomID})
	s.Require().NoError(err)
	ended := s.getRoom()

	s.now = s.now.Add(time.Second)
	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{RoomID: roomID})
	s.Require().NoError(err)
	s.False(out.Applied)
	s.Equal(string(errors.ReasonRoomNotPlaying), out.Reason)
	s.Equal(ended.Version, s.getRoom().Version)
}

func (s *OrchestratorTestSuite) TestForceTimeoutOnMissingRoom() {
	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{RoomID: "gone"})
	s.Require().NoError(err)
	s.False(out.Applied)
	s.Equal(string(errors.ReasonRoomNotFound), out.Reason)
}

func (s *OrchestratorTestSuite) TestForcedMoveInAIRoomGetsReply() {
	s.createRoom(testutils.NewPlayingRoom(roomID, roomCode, entities.ModeAI,
		s.human("alice", entities.RoleFirst),
		s.ai("ai_1", entities.RoleSecond),
	))

	out, err := s.orchestrator.ForceTimeoutAttack(s.ctx, &battle.ForceTimeoutAttackInput{RoomID: roomID})
	s.Require().NoError(err)
	s.True(out.Applied)
	s.Require().NotNil(out.AIMove)
	s.Equal("ai_1", out.AIMove.Attacker)
	s.Equal("alice", s.getRoom().CurrentPlayer)
}

func (s *OrchestratorTestSuite) TestGetRoomMasksOpponent() {
	s.createPVP(
		s.human("alice", entities.RoleFirst, entities.ItemStandingShield),
		s.human("bob", entities.RoleSecond, entities.ItemStandingShield),
	)
	_, err := s.attack("alice", 1)
	s.Require().NoError(err)

	out, err := s.orchestrator.GetRoom(s.ctx, &battle.GetRoomInput{RoomID: roomID, PlayerID: "alice"})
	s.Require().NoError(err)

	alice, _ := out.Room.Player("alice")
	bob, _ := out.Room.Player("bob")
	s.Equal(testutils.GroupNosesUp, alice.FormationGroupID)
	s.NotEmpty(alice.Items)
	s.Equal(entities.HiddenGroup, bob.FormationGroupID)
	s.Empty(bob.Items)
	s.Equal(entities.CellMiss, bob.Board.State(1))
	s.Equal(0, out.HeadsHit["bob"])

	_, err = s.orchestrator.GetRoom(s.ctx, &battle.GetRoomInput{RoomID: "gone", PlayerID: "alice"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCancelWaitingRoomIsQuiet() {
	s.createRoom(testutils.NewWaitingRoom(roomID, roomCode, entities.ModeFriendInvite,
		s.human("alice", entities.RoleFirst)))

	out, err := s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.True(out.Cancelled)
	s.Equal(entities.StatusEnded, out.Room.Status)
	s.Equal(entities.EndReasonCancelled, out.Room.EndReason)

	out, err = s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.False(out.Cancelled)
}

func (s *OrchestratorTestSuite) TestExpireOnlyWhileWaiting() {
	s.createPVP(
		s.human("alice", entities.RoleFirst),
		s.human("bob", entities.RoleSecond),
	)

	out, err := s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{
		RoomID:   roomID,
		Reason:   entities.EndReasonExpired,
		IfStatus: entities.StatusWaiting,
	})
	s.Require().NoError(err)
	s.False(out.Cancelled)
	s.Equal(entities.StatusPlaying, s.getRoom().Status)
}

func (s *OrchestratorTestSuite) TestExpireWaitingInvite() {
	s.createRoom(testutils.NewWaitingRoom(roomID, roomCode, entities.ModeFriendInvite,
		s.human("alice", entities.RoleFirst)))

	out, err := s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{
		RoomID:   roomID,
		Reason:   entities.EndReasonExpired,
		IfStatus: entities.StatusWaiting,
	})
	s.Require().NoError(err)
	s.True(out.Cancelled)
	s.Equal(entities.EndReasonExpired, out.Room.EndReason)
}

func (s *OrchestratorTestSuite) TestCancelRejectsWinReason() {
	_, err := s.orchestrator.CancelRoom(s.ctx, &battle.CancelRoomInput{
		RoomID: roomID,
		Reason: entities.EndReasonWin,
	})
	s.True(errors.IsInvalidArgument(err))
}
