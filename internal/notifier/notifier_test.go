package notifier_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/notifier"
	notifiermock "github.com/KirkDiggler/skywar-api/internal/notifier/mock"
	"github.com/KirkDiggler/skywar-api/internal/pkg/retry"
	"github.com/KirkDiggler/skywar-api/internal/repositories/outcomes"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*nats.Msg
	err  error
}

func (f *fakePublisher) PublishMsg(_ context.Context, msg *nats.Msg, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, msg)
	return &jetstream.PubAck{Stream: "SKYWAR_ROOMS", Sequence: uint64(len(f.msgs))}, nil
}

type fakeLedger struct {
	outcomes.Repository
	recorded []outcomes.RecordInput
}

func (f *fakeLedger) Record(_ context.Context, input outcomes.RecordInput) (*outcomes.RecordOutput, error) {
	f.recorded = append(f.recorded, input)
	return &outcomes.RecordOutput{Inserted: true, Awarded: len(input.Achievements)}, nil
}

type NotifierTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	ctx     context.Context
	summary *entities.RoomSummary
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierTestSuite))
}

func (s *NotifierTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.summary = &entities.RoomSummary{
		RoomID:    "room_1",
		Mode:      entities.ModePVP,
		EndReason: entities.EndReasonWin,
		Winner:    "alice",
		Loser:     "bob",
		StartedAt: started,
		EndedAt:   started.Add(time.Minute),
		Players: []entities.PlayerStats{
			{PlayerID: "alice", Kind: entities.KindHuman, Won: true, HeadsDestroyed: 3},
			{PlayerID: "bob", Kind: entities.KindHuman},
		},
	}
}

func (s *NotifierTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *NotifierTestSuite) TestJetStreamPublishesWithRoomMessageID() {
	pub := &fakePublisher{}
	n, err := notifier.NewJetStream(&notifier.JetStreamConfig{Publisher: pub})
	s.Require().NoError(err)

	s.Require().NoError(n.OnRoomEnded(s.ctx, s.summary))
	s.Require().Len(pub.msgs, 1)

	msg := pub.msgs[0]
	s.Equal(notifier.DefaultSubject, msg.Subject)
	s.Equal("room-ended-room_1", msg.Header.Get(nats.MsgIdHdr))

	var decoded entities.RoomSummary
	s.Require().NoError(json.Unmarshal(msg.Data, &decoded))
	s.Equal("alice", decoded.Winner)
}

func (s *NotifierTestSuite) TestJetStreamFailureIsUnavailable() {
	pub := &fakePublisher{err: nats.ErrConnectionClosed}
	n, err := notifier.NewJetStream(&notifier.JetStreamConfig{Publisher: pub, Subject: "custom.subject"})
	s.Require().NoError(err)

	err = n.OnRoomEnded(s.ctx, s.summary)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *NotifierTestSuite) TestMultiJoinsErrors() {
	first := notifiermock.NewMockNotifier(s.ctrl)
	second := notifiermock.NewMockNotifier(s.ctrl)

	first.EXPECT().OnRoomEnded(s.ctx, s.summary).Return(errors.Unavailable("down"))
	second.EXPECT().OnRoomEnded(s.ctx, s.summary).Return(nil)

	err := notifier.Multi(first, second).OnRoomEnded(s.ctx, s.summary)
	s.Error(err)
	s.Contains(err.Error(), "down")
}

func (s *NotifierTestSuite) TestAsyncRetriesInBackground() {
	next := notifiermock.NewMockNotifier(s.ctrl)
	gomock.InOrder(
		next.EXPECT().OnRoomEnded(gomock.Any(), s.summary).Return(errors.Unavailable("down")),
		next.EXPECT().OnRoomEnded(gomock.Any(), s.summary).Return(nil),
	)

	async, err := notifier.NewAsync(&notifier.AsyncConfig{
		Next:  next,
		Retry: retry.Policy{Attempts: 3},
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	s.Require().NoError(async.OnRoomEnded(ctx, s.summary))
	// delivery outlives the caller's context
	cancel()

	waitCtx, done := context.WithTimeout(s.ctx, 5*time.Second)
	defer done()
	s.Require().NoError(async.Wait(waitCtx))
}

func (s *NotifierTestSuite) TestLedgerRecordsDerivedAchievements() {
	repo := &fakeLedger{}
	n, err := notifier.NewLedger(&notifier.LedgerConfig{Repository: repo})
	s.Require().NoError(err)

	s.Require().NoError(n.OnRoomEnded(s.ctx, s.summary))
	s.Require().Len(repo.recorded, 1)
	s.Equal(s.summary, repo.recorded[0].Summary)
	s.Equal(outcomes.Derive(s.summary), repo.recorded[0].Achievements)
}

func (s *NotifierTestSuite) TestConfigValidation() {
	_, err := notifier.NewJetStream(&notifier.JetStreamConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = notifier.NewLedger(&notifier.LedgerConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = notifier.NewAsync(&notifier.AsyncConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *NotifierTestSuite) TestLogNeverFails() {
	s.NoError(notifier.Log().OnRoomEnded(s.ctx, s.summary))
}
