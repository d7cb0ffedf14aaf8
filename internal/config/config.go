// Package config loads the service configuration from an optional YAML file
// with SKYWAR_ environment overrides.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "SKYWAR_"

// Config is the full service configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" envPrefix:"SERVER_"`
	Log         LogConfig         `yaml:"log" envPrefix:"LOG_"`
	Redis       RedisConfig       `yaml:"redis" envPrefix:"REDIS_"`
	Postgres    PostgresConfig    `yaml:"postgres" envPrefix:"POSTGRES_"`
	NATS        NATSConfig        `yaml:"nats" envPrefix:"NATS_"`
	Battle      BattleConfig      `yaml:"battle" envPrefix:"BATTLE_"`
	Matchmaking MatchmakingConfig `yaml:"matchmaking" envPrefix:"MATCHMAKING_"`
	Sweeper     SweeperConfig     `yaml:"sweeper" envPrefix:"SWEEPER_"`
}

// ServerConfig configures the gRPC listener
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// RunSweeper starts the sweeper inside the server process
	RunSweeper bool `yaml:"run_sweeper" env:"RUN_SWEEPER"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Format string `yaml:"format" env:"FORMAT"`
	Level  string `yaml:"level" env:"LEVEL"`
}

// RedisConfig selects a single node or a sentinel failover setup
type RedisConfig struct {
	Endpoint     string   `yaml:"endpoint" env:"ENDPOINT"`
	MasterName   string   `yaml:"master_name" env:"MASTER_NAME"`
	Sentinels    []string `yaml:"sentinels" env:"SENTINELS" envSeparator:","`
	PoolSize     int      `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int      `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	MaxRetries   int      `yaml:"max_retries" env:"MAX_RETRIES"`
	UseTLS       bool     `yaml:"use_tls" env:"USE_TLS"`
}

// Failover reports whether sentinels are configured
func (c RedisConfig) Failover() bool {
	return c.MasterName != ""
}

// PostgresConfig enables the outcome ledger when DSN is set
type PostgresConfig struct {
	DSN     string `yaml:"dsn" env:"DSN"`
	Migrate bool   `yaml:"migrate" env:"MIGRATE"`
}

// Enabled reports whether the ledger is configured
func (c PostgresConfig) Enabled() bool {
	return c.DSN != ""
}

// NATSConfig enables the outcome stream when URL is set
type NATSConfig struct {
	URL     string `yaml:"url" env:"URL"`
	Stream  string `yaml:"stream" env:"STREAM"`
	Subject string `yaml:"subject" env:"SUBJECT"`
	// DuplicateWindow is the stream's message id dedupe window
	DuplicateWindow time.Duration `yaml:"duplicate_window" env:"DUPLICATE_WINDOW"`
}

// Enabled reports whether the stream is configured
func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

// BattleConfig tunes the room state machine
type BattleConfig struct {
	TurnTimeout    time.Duration `yaml:"turn_timeout" env:"TURN_TIMEOUT"`
	AIMoveDelayMin time.Duration `yaml:"ai_move_delay_min" env:"AI_MOVE_DELAY_MIN"`
	AIMoveDelayMax time.Duration `yaml:"ai_move_delay_max" env:"AI_MOVE_DELAY_MAX"`
	EndedRetention time.Duration `yaml:"ended_retention" env:"ENDED_RETENTION"`
	NotifyTimeout  time.Duration `yaml:"notify_timeout" env:"NOTIFY_TIMEOUT"`
}

// MatchmakingConfig tunes room creation and AI backfill
type MatchmakingConfig struct {
	CodeLength       int           `yaml:"code_length" env:"CODE_LENGTH"`
	CodeAttempts     int           `yaml:"code_attempts" env:"CODE_ATTEMPTS"`
	BackfillAttempts int           `yaml:"backfill_attempts" env:"BACKFILL_ATTEMPTS"`
	BackfillDelay    time.Duration `yaml:"backfill_delay" env:"BACKFILL_DELAY"`
	AIRoster         []string      `yaml:"ai_roster" env:"AI_ROSTER" envSeparator:","`
}

// SweeperConfig tunes the timeout and backfill sweeper
type SweeperConfig struct {
	Interval      time.Duration `yaml:"interval" env:"INTERVAL"`
	BackfillAfter time.Duration `yaml:"backfill_after" env:"BACKFILL_AFTER"`
	InviteExpiry  time.Duration `yaml:"invite_expiry" env:"INVITE_EXPIRY"`
	Concurrency   int           `yaml:"concurrency" env:"CONCURRENCY"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            50051,
			ShutdownTimeout: 30 * time.Second,
			RunSweeper:      true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
		Redis: RedisConfig{
			Endpoint:     "localhost:6379",
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
		},
		Postgres: PostgresConfig{
			Migrate: true,
		},
		NATS: NATSConfig{
			Stream:          "SKYWAR_ROOMS",
			Subject:         "skywar.rooms.ended",
			DuplicateWindow: 10 * time.Minute,
		},
		Battle: BattleConfig{
			TurnTimeout:    30 * time.Second,
			AIMoveDelayMin: 2 * time.Second,
			AIMoveDelayMax: 6 * time.Second,
			EndedRetention: 24 * time.Hour,
			NotifyTimeout:  10 * time.Second,
		},
		Matchmaking: MatchmakingConfig{
			CodeLength:       6,
			CodeAttempts:     10,
			BackfillAttempts: 3,
			BackfillDelay:    time.Second,
			AIRoster:         []string{"ai_1", "ai_2", "ai_3", "ai_4", "ai_5"},
		},
		Sweeper: SweeperConfig{
			Interval:      5 * time.Second,
			BackfillAfter: 20 * time.Second,
			InviteExpiry:  30 * time.Minute,
			Concurrency:   8,
		},
	}
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to parse config file %s", path)
		}
	}

	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment. A nil environment reads the
// process environment. Unset variables leave fields untouched.
func ApplyEnv(cfg *Config, environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return nil
}

// Validate checks ranges and cross-field constraints
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("server.port", c.Server.Port, 1, 65535, vb)
	errors.ValidatePositiveDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, vb)

	errors.ValidateEnum("log.format", c.Log.Format, []string{"json", "text"}, vb)
	errors.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}, vb)

	if c.Redis.Failover() {
		if len(c.Redis.Sentinels) == 0 {
			vb.Field("redis.sentinels", "required when master_name is set")
		}
	} else {
		errors.ValidateRequired("redis.endpoint", c.Redis.Endpoint, vb)
	}

	if c.NATS.Enabled() {
		errors.ValidateRequired("nats.stream", c.NATS.Stream, vb)
		errors.ValidateRequired("nats.subject", c.NATS.Subject, vb)
	}

	errors.ValidatePositiveDuration("battle.turn_timeout", c.Battle.TurnTimeout, vb)
	errors.ValidatePositiveDuration("battle.ended_retention", c.Battle.EndedRetention, vb)
	errors.ValidatePositiveDuration("battle.notify_timeout", c.Battle.NotifyTimeout, vb)
	if c.Battle.AIMoveDelayMin < 0 || c.Battle.AIMoveDelayMax < c.Battle.AIMoveDelayMin {
		vb.Field("battle.ai_move_delay", "requires 0 <= min <= max")
	}

	errors.ValidateRange("matchmaking.code_length", c.Matchmaking.CodeLength, 4, 12, vb)
	if c.Matchmaking.CodeAttempts < 1 {
		vb.Field("matchmaking.code_attempts", "must be at least 1")
	}
	if c.Matchmaking.BackfillAttempts < 1 {
		vb.Field("matchmaking.backfill_attempts", "must be at least 1")
	}
	if c.Matchmaking.BackfillDelay < 0 {
		vb.Field("matchmaking.backfill_delay", "must not be negative")
	}
	if len(c.Matchmaking.AIRoster) == 0 {
		vb.RequiredField("matchmaking.ai_roster")
	}

	errors.ValidatePositiveDuration("sweeper.interval", c.Sweeper.Interval, vb)
	errors.ValidatePositiveDuration("sweeper.backfill_after", c.Sweeper.BackfillAfter, vb)
	errors.ValidatePositiveDuration("sweeper.invite_expiry", c.Sweeper.InviteExpiry, vb)
	if c.Sweeper.Concurrency < 1 {
		vb.Field("sweeper.concurrency", "must be at least 1")
	}

	return vb.Build()
}
