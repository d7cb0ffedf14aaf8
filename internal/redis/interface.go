package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories depend on this package
// rather than on a concrete go-redis client type
type Client interface {
	redis.UniversalClient
}

var (
	// Nil is returned by commands when a key does not exist
	Nil = redis.Nil
	// TxFailedErr is returned by EXEC when a watched key changed
	TxFailedErr = redis.TxFailedErr
)
