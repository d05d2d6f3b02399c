package bloom

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CustomersKey is the RedisBloom filter key for enquiring customers.
const CustomersKey = "dp:customers"

type doer interface {
	Do(ctx context.Context, args ...interface{}) *redis.Cmd
}

// Filter answers "has this customer enquired before" using a RedisBloom
// filter. False positives are possible, false negatives are not.
type Filter struct {
	rdb    doer
	key    string
	logger *zap.Logger
}

func New(rdb doer, logger *zap.Logger) *Filter {
	return &Filter{rdb: rdb, key: CustomersKey, logger: logger}
}

// Reserve creates the filter with error rate 0.001 and capacity 100k. It is
// safe to call when the filter already exists.
func (f *Filter) Reserve(ctx context.Context) {
	// RedisBloom (redis/go-redis/v9): BF.RESERVE creates a probabilistic data structure for duplicate detection.
	// This uses RedisBloom module (via redis-stack-server) - not standard Redis commands.
	if err := f.rdb.Do(ctx, "BF.RESERVE", f.key, 0.001, 100_000).Err(); err != nil {
		f.logger.Debug("bloom: reserve customers (may already exist)", zap.Error(err))
	}
}

// SeenCustomer returns true if email looks like a returning customer
// according to the Bloom filter. It also adds the email if not seen before.
// Addresses are hashed so the filter never holds plain addresses.
func (f *Filter) SeenCustomer(ctx context.Context, email string) bool {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))

	// RedisBloom (redis/go-redis/v9): BF.ADD adds item to Bloom filter.
	// Returns 1 if item was new, 0 if it probably existed (false positive possible).
	res := f.rdb.Do(ctx, "BF.ADD", f.key, hex.EncodeToString(sum[:]))
	if res.Err() != nil {
		f.logger.Warn("bloom: BF.ADD error", zap.Error(res.Err()))
		return false
	}
	// BF.ADD can return either int (0/1) or bool (true/false) depending on Redis version
	val, err := res.Int()
	if err != nil {
		boolVal, boolErr := res.Bool()
		if boolErr != nil {
			f.logger.Warn("bloom: BF.ADD type error (not int or bool)", zap.Error(err))
			return false
		}
		// Bool: true means item was new (not seen), false means probably existed
		return !boolVal
	}
	// Int: 1 means item was new (not seen), 0 means probably existed
	return val == 0
}
