package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/formation"
	formationmock "github.com/KirkDiggler/skywar-api/internal/formation/mock"
)

// group 55027 places noses up at cells 7, 51 and 58
const testGroupID = 55027

type EngineTestSuite struct {
	suite.Suite
	engine   engine.Engine
	group    *entities.FormationGroup
	attacker *entities.Player
	defender *entities.Player
	now      time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupSuite() {
	catalog := formation.New()

	var err error
	s.engine, err = engine.New(&engine.Config{Catalog: catalog})
	s.Require().NoError(err)

	s.group, err = catalog.HeadAndBody(testGroupID)
	s.Require().NoError(err)
}

func (s *EngineTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.attacker = &entities.Player{
		ID:   "attacker",
		Role: entities.RoleFirst,
		Kind: entities.KindHuman,
	}
	s.defender = &entities.Player{
		ID:               "defender",
		Role:             entities.RoleSecond,
		Kind:             entities.KindHuman,
		FormationGroupID: testGroupID,
		Board:            entities.NewBoard(),
	}
}

func (s *EngineTestSuite) attack(cells ...int) (*engine.ResolveAttackOutput, error) {
	return s.engine.ResolveAttack(&engine.ResolveAttackInput{
		Attacker: s.attacker,
		Defender: s.defender,
		Cells:    cells,
		At:       s.now,
	})
}

// land applies an attack result the way the battle orchestrator does
func (s *EngineTestSuite) land(out *engine.ResolveAttackOutput) {
	s.defender.Board = out.Board
	if out.ShieldUsed != "" {
		s.Require().True(s.defender.UseItem(out.ShieldUsed))
	}
}

func (s *EngineTestSuite) TestResolveAttackRequiresAttacker() {
	_, err := s.engine.ResolveAttack(&engine.ResolveAttackInput{
		Defender: s.defender,
		Cells:    []int{1},
		At:       s.now,
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestEventsNameBothEntities() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemFirstHitShield})

	out, err := s.attack(7)
	s.Require().NoError(err)
	s.Require().Len(out.Events, 1)
	s.Equal(s.attacker.GetID(), out.Events[0].Attacker)
	s.Equal(s.defender.GetID(), out.Events[0].Defender)
}

func (s *EngineTestSuite) TestUnknownDefenderFormation() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	catalog := formationmock.NewMockCatalog(ctrl)
	catalog.EXPECT().
		HeadAndBody(testGroupID).
		Return(nil, errors.NotFoundf("formation group %d", testGroupID))

	eng, err := engine.New(&engine.Config{Catalog: catalog})
	s.Require().NoError(err)

	_, err = eng.ResolveAttack(&engine.ResolveAttackInput{
		Attacker: s.attacker,
		Defender: s.defender,
		Cells:    []int{7},
		At:       s.now,
	})
	s.True(errors.IsNotFound(err))
	s.Equal(entities.CellEmpty, s.defender.Board.State(7))
}

func (s *EngineTestSuite) TestNewRequiresCatalog() {
	_, err := engine.New(&engine.Config{})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = engine.New(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestClassify() {
	testCases := []struct {
		name  string
		cell  int
		class engine.Classification
		plane int
	}{
		{"first head", 7, engine.Head, 0},
		{"first wing", 19, engine.Body, 0},
		{"first tail", 44, engine.Body, 0},
		{"second head", 51, engine.Head, 1},
		{"third fuselage", 82, engine.Body, 2},
		{"corner", 1, engine.EmptySpace, -1},
		{"far corner", 144, engine.EmptySpace, -1},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			target := engine.Classify(s.group, tc.cell)
			s.Equal(tc.class, target.Class)
			s.Equal(tc.plane, target.PlaneIndex)
			s.Equal(tc.cell, target.Cell)
		})
	}
}

func (s *EngineTestSuite) TestApplyRawTransitions() {
	board := entities.NewBoard()

	state, err := engine.ApplyRaw(board, 7, engine.Head)
	s.NoError(err)
	s.Equal(entities.CellHeadHit, state)

	state, err = engine.ApplyRaw(board, 19, engine.Body)
	s.NoError(err)
	s.Equal(entities.CellBodyHit, state)

	state, err = engine.ApplyRaw(board, 1, engine.EmptySpace)
	s.NoError(err)
	s.Equal(entities.CellMiss, state)

	board[6] = entities.CellDodged
	state, err = engine.ApplyRaw(board, 7, engine.Head)
	s.NoError(err)
	s.Equal(entities.CellHeadHit, state, "a dodged cell can still be hit later")

	for _, terminal := range []entities.CellState{entities.CellHeadHit, entities.CellBodyHit, entities.CellMiss} {
		board[0] = terminal
		_, err = engine.ApplyRaw(board, 1, engine.EmptySpace)
		s.True(errors.HasReason(err, errors.ReasonAlreadyAttacked))
	}
}

func (s *EngineTestSuite) TestHeadHitWithoutItems() {
	out, err := s.attack(7)
	s.Require().NoError(err)

	s.Equal(entities.CellHeadHit, out.Board.State(7))
	s.False(out.Dodged())
	s.Equal(1, out.HeadsHit)
	s.Equal(entities.CellEmpty, s.defender.Board.State(7), "input board is not modified")

	s.Require().Len(out.Events, 1)
	s.Equal(entities.EventOneHitKill, out.Events[0].Type)
	s.Equal(7, out.Events[0].Cell)
	s.Equal(0, out.Events[0].PlaneIndex)
	s.Equal("attacker", out.Events[0].Attacker)
	s.Equal("defender", out.Events[0].Defender)
}

func (s *EngineTestSuite) TestHeadHitAfterBodyDamageIsNotOneHitKill() {
	s.defender.Board[18] = entities.CellBodyHit // cell 19

	out, err := s.attack(7)
	s.Require().NoError(err)
	s.Equal(entities.CellHeadHit, out.Board.State(7))
	s.Empty(out.Events)
}

func (s *EngineTestSuite) TestMissAndBodyHit() {
	out, err := s.attack(1)
	s.Require().NoError(err)
	s.Equal(entities.CellMiss, out.Board.State(1))
	s.Equal(engine.EmptySpace, out.Outcomes[0].Class)

	s.land(out)
	out, err = s.attack(62)
	s.Require().NoError(err)
	s.Equal(entities.CellBodyHit, out.Board.State(62))
	s.Equal(0, out.HeadsHit)
}

func (s *EngineTestSuite) TestFirstHitShieldThenHeadHit() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemFirstHitShield})

	out, err := s.attack(7)
	s.Require().NoError(err)
	s.Equal(entities.ItemFirstHitShield, out.ShieldUsed)
	s.Equal(entities.CellDodged, out.Board.State(7))
	s.Equal(0, out.HeadsHit)
	s.Require().Len(out.Events, 1)
	s.Equal(entities.EventHeadDodge, out.Events[0].Type)
	s.True(s.defender.HasItem(entities.ItemFirstHitShield), "engine never consumes items itself")

	s.land(out)
	s.False(s.defender.HasItem(entities.ItemFirstHitShield))

	out, err = s.attack(7)
	s.Require().NoError(err)
	s.False(out.Dodged())
	s.Equal(entities.CellHeadHit, out.Board.State(7))
	s.Equal(1, out.HeadsHit)
}

func (s *EngineTestSuite) TestFirstHitShieldOnlyOnFirstHit() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemFirstHitShield})
	s.defender.Board[18] = entities.CellBodyHit

	out, err := s.attack(7)
	s.Require().NoError(err)
	s.False(out.Dodged())
	s.Equal(entities.CellHeadHit, out.Board.State(7))
}

func (s *EngineTestSuite) TestMissDoesNotSpendShield() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemStandingShield})

	out, err := s.attack(1)
	s.Require().NoError(err)
	s.False(out.Dodged())
	s.Equal(entities.CellMiss, out.Board.State(1))
}

func (s *EngineTestSuite) TestStandingShieldAfterFirstHit() {
	s.defender.Items = entities.NewItems([]entities.ItemID{
		entities.ItemFirstHitShield,
		entities.ItemStandingShield,
	})
	s.defender.Board[18] = entities.CellBodyHit

	out, err := s.attack(62)
	s.Require().NoError(err)
	s.Equal(entities.ItemStandingShield, out.ShieldUsed)
	s.Equal(entities.CellDodged, out.Board.State(62))
	s.Empty(out.Events, "body dodges are not bonus events")
}

func (s *EngineTestSuite) TestFirstHitShieldPreferred() {
	s.defender.Items = entities.NewItems([]entities.ItemID{
		entities.ItemStandingShield,
		entities.ItemFirstHitShield,
	})

	out, err := s.attack(51)
	s.Require().NoError(err)
	s.Equal(entities.ItemFirstHitShield, out.ShieldUsed)
}

func (s *EngineTestSuite) TestDoubleShotDodgedTogether() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemStandingShield})

	out, err := s.attack(7, 1)
	s.Require().NoError(err)
	s.Equal(entities.ItemStandingShield, out.ShieldUsed)
	s.Equal(entities.CellDodged, out.Board.State(7))
	s.Equal(entities.CellEmpty, out.Board.State(1), "a dodged request leaves its missing cells open")
	s.Require().Len(out.Outcomes, 2)
	s.Equal(entities.CellEmpty, out.Outcomes[1].State)
}

func (s *EngineTestSuite) TestNoDodgeWhenTargetAlreadyDodged() {
	s.defender.Items = entities.NewItems([]entities.ItemID{entities.ItemStandingShield})
	s.defender.Board[6] = entities.CellDodged

	out, err := s.attack(7, 51)
	s.Require().NoError(err)
	s.False(out.Dodged())
	s.Equal(entities.CellHeadHit, out.Board.State(7))
	s.Equal(entities.CellHeadHit, out.Board.State(51))
	s.Equal(2, out.HeadsHit)
}

func (s *EngineTestSuite) TestDoubleShotOneHitKillJudgedAfterVolley() {
	out, err := s.attack(7, 19)
	s.Require().NoError(err)
	s.Equal(entities.CellHeadHit, out.Board.State(7))
	s.Equal(entities.CellBodyHit, out.Board.State(19))
	s.Empty(out.Events)
}

func (s *EngineTestSuite) TestThreeHeadsHit() {
	s.defender.Board[6] = entities.CellHeadHit
	s.defender.Board[50] = entities.CellHeadHit

	out, err := s.attack(58)
	s.Require().NoError(err)
	s.Equal(entities.HeadsToWin, out.HeadsHit)
	s.Equal(entities.HeadsToWin, engine.CountHeadsHit(out.Board))
}

func (s *EngineTestSuite) TestAlreadyAttackedLeavesBoardUnchanged() {
	s.defender.Board[0] = entities.CellMiss
	before := s.defender.Board.Clone()

	out, err := s.attack(1)
	s.Nil(out)
	s.True(errors.IsFailedPrecondition(err))
	s.True(errors.HasReason(err, errors.ReasonAlreadyAttacked))
	s.Equal(before, s.defender.Board)

	_, err = s.attack(7, 1)
	s.True(errors.HasReason(err, errors.ReasonAlreadyAttacked))
	s.Equal(entities.CellEmpty, s.defender.Board.State(7))
}

func (s *EngineTestSuite) TestInvalidCells() {
	testCases := []struct {
		name  string
		cells []int
	}{
		{"none", nil},
		{"three", []int{1, 2, 3}},
		{"zero", []int{0}},
		{"past the board", []int{145}},
		{"duplicate", []int{7, 7}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.attack(tc.cells...)
			s.True(errors.IsInvalidArgument(err))
			s.True(errors.HasReason(err, errors.ReasonInvalidCells))
		})
	}
}
