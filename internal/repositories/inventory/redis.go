package inventory

import (
	"context"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	redisclient "github.com/KirkDiggler/skywar-api/internal/redis"
)

// inventory:{identity} is a hash of item id to balance
const inventoryKeyPrefix = "inventory:"

// consumeScript decrements a balance only when it is positive.
// Returns the new balance, or -1 when nothing was available.
var consumeScript = redis.NewScript(`
local balance = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if balance <= 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
`)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for item balances
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func inventoryKey(playerID string) string {
	return inventoryKeyPrefix + playerID
}

func validate(playerID string, itemID entities.ItemID) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("PlayerID", playerID, vb)
	if !itemID.Valid() {
		vb.InvalidField("ItemID", string(itemID))
	}
	return vb.Build()
}

func (r *redisRepository) Loadout(ctx context.Context, input LoadoutInput) (*LoadoutOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID cannot be empty")
	}

	raw, err := r.client.HGetAll(ctx, inventoryKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read inventory for %s", input.PlayerID)
	}

	out := &LoadoutOutput{Balances: make(map[entities.ItemID]int64)}
	// fixed order so rooms list items deterministically
	for _, id := range []entities.ItemID{
		entities.ItemFirstHitShield,
		entities.ItemStandingShield,
		entities.ItemDoubleShot,
	} {
		v, ok := raw[string(id)]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Internalf("corrupt balance %q for item %s", v, id)
		}
		out.Balances[id] = n
		if n > 0 {
			out.Items = append(out.Items, id)
		}
	}

	return out, nil
}

func (r *redisRepository) Consume(ctx context.Context, input ConsumeInput) (*ConsumeOutput, error) {
	if err := validate(input.PlayerID, input.ItemID); err != nil {
		return nil, err
	}

	remaining, err := consumeScript.Run(ctx, r.client, []string{inventoryKey(input.PlayerID)}, string(input.ItemID)).Int64()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to consume %s", input.ItemID)
	}
	if remaining < 0 {
		return nil, errors.ItemRequired(string(input.ItemID)).WithMeta("player_id", input.PlayerID)
	}

	return &ConsumeOutput{Remaining: remaining}, nil
}

func (r *redisRepository) Grant(ctx context.Context, input GrantInput) (*GrantOutput, error) {
	if err := validate(input.PlayerID, input.ItemID); err != nil {
		return nil, err
	}
	if input.Count <= 0 {
		return nil, errors.InvalidArgumentf("grant count must be positive, got %d", input.Count)
	}

	balance, err := r.client.HIncrBy(ctx, inventoryKey(input.PlayerID), string(input.ItemID), input.Count).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to grant %s", input.ItemID)
	}

	return &GrantOutput{Balance: balance}, nil
}
