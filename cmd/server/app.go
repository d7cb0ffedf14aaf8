package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/KirkDiggler/skywar-api/internal/config"
	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/formation"
	"github.com/KirkDiggler/skywar-api/internal/notifier"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/matchmaking"
	"github.com/KirkDiggler/skywar-api/internal/pkg/clock"
	"github.com/KirkDiggler/skywar-api/internal/pkg/idgen"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
	"github.com/KirkDiggler/skywar-api/internal/pkg/retry"
	"github.com/KirkDiggler/skywar-api/internal/redis"
	"github.com/KirkDiggler/skywar-api/internal/repositories/inventory"
	"github.com/KirkDiggler/skywar-api/internal/repositories/outcomes"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
	"github.com/KirkDiggler/skywar-api/internal/scheduler"
)

const pingTimeout = 5 * time.Second

// app holds the wired services and the connections they share
type app struct {
	battle      battle.Service
	matchmaking matchmaking.Service
	sweeper     *scheduler.Sweeper

	redis    redis.Client
	pool     *pgxpool.Pool
	nc       *nats.Conn
	notifier *notifier.Async
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	if err := a.connectRedis(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	sink, err := a.buildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.notifier, err = notifier.NewAsync(&notifier.AsyncConfig{
		Next:    sink,
		Timeout: cfg.Battle.NotifyTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create async notifier")
	}

	roomRepo, err := rooms.NewRedisRepository(&rooms.Config{
		Client:         a.redis,
		EndedRetention: cfg.Battle.EndedRetention,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create room repository")
	}
	inventoryRepo, err := inventory.NewRedisRepository(&inventory.Config{Client: a.redis})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create inventory repository")
	}

	catalog := formation.New()
	eng, err := engine.New(&engine.Config{Catalog: catalog})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	src := random.New(nil)
	clk := clock.New()

	a.battle, err = battle.NewOrchestrator(&battle.Config{
		RoomRepo:       roomRepo,
		InventoryRepo:  inventoryRepo,
		Engine:         eng,
		Notifier:       a.notifier,
		Random:         src,
		Clock:          clk,
		TurnTimeout:    cfg.Battle.TurnTimeout,
		AIMoveDelayMin: cfg.Battle.AIMoveDelayMin,
		AIMoveDelayMax: cfg.Battle.AIMoveDelayMax,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle orchestrator")
	}

	a.matchmaking, err = matchmaking.NewOrchestrator(&matchmaking.Config{
		RoomRepo:      roomRepo,
		InventoryRepo: inventoryRepo,
		Catalog:       catalog,
		Battle:        a.battle,
		IDGenerator:   idgen.NewUUID("room"),
		CodeGenerator: idgen.NewCode(src, cfg.Matchmaking.CodeLength),
		Random:        src,
		Clock:         clk,
		AIRoster:      cfg.Matchmaking.AIRoster,
		CodeAttempts:  cfg.Matchmaking.CodeAttempts,
		Backfill: retry.Policy{
			Attempts: cfg.Matchmaking.BackfillAttempts,
			Delay:    cfg.Matchmaking.BackfillDelay,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create matchmaking orchestrator")
	}

	a.sweeper, err = scheduler.New(&scheduler.Config{
		RoomRepo:      roomRepo,
		Battle:        a.battle,
		Matchmaking:   a.matchmaking,
		Clock:         clk,
		Interval:      cfg.Sweeper.Interval,
		TurnTimeout:   cfg.Battle.TurnTimeout,
		BackfillAfter: cfg.Sweeper.BackfillAfter,
		InviteExpiry:  cfg.Sweeper.InviteExpiry,
		Concurrency:   cfg.Sweeper.Concurrency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sweeper")
	}

	return a, nil
}

func (a *app) connectRedis(ctx context.Context, cfg config.RedisConfig) error {
	opts := &redis.Options{
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		UseTLS:       cfg.UseTLS,
	}

	var err error
	if cfg.Failover() {
		a.redis, err = redis.NewFailoverClient(cfg.MasterName, cfg.Sentinels, opts)
	} else {
		a.redis, err = redis.NewClient(cfg.Endpoint, opts)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}

	if err := redis.Ping(ctx, a.redis, pingTimeout); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach redis")
	}
	slog.Info("Connected to redis", "failover", cfg.Failover())
	return nil
}

// buildNotifier fans out to every configured sink and falls back to the log
func (a *app) buildNotifier(ctx context.Context, cfg *config.Config) (notifier.Notifier, error) {
	var sinks []notifier.Notifier

	if cfg.Postgres.Enabled() {
		if cfg.Postgres.Migrate {
			if err := outcomes.Migrate(cfg.Postgres.DSN); err != nil {
				return nil, err
			}
		}

		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create postgres pool")
		}
		a.pool = pool

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach postgres")
		}

		repo, err := outcomes.NewPostgresRepository(&outcomes.Config{Pool: pool})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create outcome repository")
		}
		ledger, err := notifier.NewLedger(&notifier.LedgerConfig{Repository: repo})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create ledger notifier")
		}
		sinks = append(sinks, ledger)
		slog.Info("Outcome ledger enabled")
	}

	if cfg.NATS.Enabled() {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("skywar-api"))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to nats")
		}
		a.nc = nc

		js, err := jetstream.New(nc)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create jetstream context")
		}
		streamCfg := notifier.StreamConfig(cfg.NATS.Stream, cfg.NATS.Subject, cfg.NATS.DuplicateWindow)
		if err := notifier.EnsureStream(ctx, js, streamCfg); err != nil {
			return nil, err
		}

		stream, err := notifier.NewJetStream(&notifier.JetStreamConfig{
			Publisher: js,
			Subject:   cfg.NATS.Subject,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create jetstream notifier")
		}
		sinks = append(sinks, stream)
		slog.Info("Outcome stream enabled", "stream", cfg.NATS.Stream, "subject", cfg.NATS.Subject)
	}

	if len(sinks) == 0 {
		slog.Warn("No outcome sink configured, summaries are only logged")
		return notifier.Log(), nil
	}
	return notifier.Multi(sinks...), nil
}

// close drains pending summaries then releases connections
func (a *app) close(ctx context.Context) {
	if a.notifier != nil {
		if err := a.notifier.Wait(ctx); err != nil {
			slog.Warn("Pending room summaries abandoned", "error", err)
		}
	}
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil {
			slog.Warn("Failed to drain nats connection", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}
}
