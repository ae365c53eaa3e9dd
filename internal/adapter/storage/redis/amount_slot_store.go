package redis

import (
	"context"
	"fmt"
	"math/big"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// maxAmountProbes bounds how far AcquireUnique steps above the requested
// amount before giving up.
const maxAmountProbes = 100

// AmountSlotStore implements ports.AmountSlotStore using Redis SET NX.
// Deposits to a shared address are told apart by settled amount, so each
// open order on an address must hold a distinct amount slot.
type AmountSlotStore struct {
	client *goredis.Client
	prefix string
}

// NewAmountSlotStore creates a new Redis-backed amount slot store.
func NewAmountSlotStore(client *goredis.Client) *AmountSlotStore {
	return &AmountSlotStore{
		client: client,
		prefix: "amtslot:",
	}
}

func (s *AmountSlotStore) key(chain, address string, amount *big.Int) string {
	return s.prefix + chain + ":" + address + ":" + amount.String()
}

// AcquireUnique reserves an amount slot on the address, stepping up by one
// base unit while the requested amount is already held by another open
// order. Returns the amount actually reserved.
func (s *AmountSlotStore) AcquireUnique(ctx context.Context, chain, address string, amount *big.Int, ttl time.Duration) (*big.Int, error) {
	probe := new(big.Int).Set(amount)
	one := big.NewInt(1)

	for i := 0; i < maxAmountProbes; i++ {
		ok, err := s.client.SetNX(ctx, s.key(chain, address, probe), 1, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis amount slot acquire: %w", err)
		}
		if ok {
			return probe, nil
		}
		probe = new(big.Int).Add(probe, one)
	}
	return nil, fmt.Errorf("no free amount slot on %s near %s", address, amount.String())
}

// Release frees an amount slot before its TTL, used when the order settles
// or expires early.
func (s *AmountSlotStore) Release(ctx context.Context, chain, address string, amount *big.Int) error {
	if err := s.client.Del(ctx, s.key(chain, address, amount)).Err(); err != nil && err != goredis.Nil {
		return fmt.Errorf("redis amount slot release: %w", err)
	}
	return nil
}
