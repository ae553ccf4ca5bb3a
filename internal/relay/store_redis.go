package relay

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
)

// compareAndIncrement advances the counter only when its current value (zero
// when the key is absent) equals the expected argument. Running as a script
// keeps check and write atomic across concurrent relayers.
var compareAndIncrement = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local expected = tonumber(ARGV[1])
if current ~= expected then
	return 0
end
redis.call('SET', KEYS[1], expected + 1)
return 1
`)

// RedisNonceStore shares relay nonces across instances.
type RedisNonceStore struct {
	client *redis.Client
	prefix string
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client, prefix: "relay:nonce:"}
}

func (s *RedisNonceStore) key(signer domain.Address) string {
	return s.prefix + signer.String()
}

func (s *RedisNonceStore) Get(ctx context.Context, signer domain.Address) (uint64, error) {
	n, err := s.client.Get(ctx, s.key(signer)).Uint64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get relay nonce: %w", err)
	}
	return n, nil
}

func (s *RedisNonceStore) Increment(ctx context.Context, signer domain.Address, expected uint64) error {
	ok, err := compareAndIncrement.Run(ctx, s.client, []string{s.key(signer)}, expected).Int()
	if err != nil {
		return fmt.Errorf("increment relay nonce: %w", err)
	}
	if ok != 1 {
		return sentinel.ErrStaleNonce
	}
	return nil
}
