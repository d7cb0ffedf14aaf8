package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// DefaultSubject carries room-ended summaries
const DefaultSubject = "skywar.rooms.ended"

// Publisher is the part of jetstream.JetStream the notifier uses
type Publisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStreamConfig configures the stream publisher
type JetStreamConfig struct {
	Publisher Publisher
	Subject   string
}

// Validate ensures all required dependencies are provided
func (c *JetStreamConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Publisher == nil {
		vb.RequiredField("Publisher")
	}

	return vb.Build()
}

type jetStreamNotifier struct {
	publisher Publisher
	subject   string
}

// NewJetStream publishes summaries to a JetStream subject. The message id is
// derived from the room so the stream's duplicate window drops replays.
func NewJetStream(cfg *JetStreamConfig) (Notifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return &jetStreamNotifier{publisher: cfg.Publisher, subject: subject}, nil
}

// MessageID is the dedupe id used for a room's summary
func MessageID(roomID string) string {
	return "room-ended-" + roomID
}

func (j *jetStreamNotifier) OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "failed to marshal room summary")
	}

	msg := nats.NewMsg(j.subject)
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, MessageID(summary.RoomID))
	msg.Header.Set("Skywar-Mode", string(summary.Mode))

	ack, err := j.publisher.PublishMsg(ctx, msg)
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to publish summary for room %s", summary.RoomID)
	}
	if ack != nil && ack.Duplicate {
		slog.Debug("Room summary already published", "room_id", summary.RoomID, "stream", ack.Stream)
	}
	return nil
}

// StreamConfig is the stream that stores room summaries
func StreamConfig(name, subject string, duplicates time.Duration) jetstream.StreamConfig {
	if subject == "" {
		subject = DefaultSubject
	}
	return jetstream.StreamConfig{
		Name:       name,
		Subjects:   []string{subject},
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		Replicas:   1,
		Duplicates: duplicates,
	}
}

// EnsureStream creates or updates the summary stream
func EnsureStream(ctx context.Context, js jetstream.JetStream, cfg jetstream.StreamConfig) error {
	if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
		return errors.Wrapf(err, "failed to ensure stream %s (subjects=%v)", cfg.Name, cfg.Subjects)
	}
	return nil
}
