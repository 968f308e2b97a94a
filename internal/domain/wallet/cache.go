package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache keeps best-effort snapshots of the last authoritative wallet read and
// transaction page in Redis, so reads can degrade gracefully when the store
// is unreachable. A nil client disables caching entirely; every method then
// behaves as a miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func walletKey(userID uuid.UUID) string {
	return fmt.Sprintf("wallet:snapshot:%s", userID)
}

func historyKey(userID uuid.UUID, limit, offset int) string {
	return fmt.Sprintf("wallet:history:%s:%d:%d", userID, limit, offset)
}

func (c *Cache) SaveWallet(ctx context.Context, w Wallet) {
	if c == nil || c.rdb == nil || w.Degraded {
		return
	}
	data, err := json.Marshal(w)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, walletKey(w.UserID), data, c.ttl)
}

func (c *Cache) GetWallet(ctx context.Context, userID uuid.UUID) (Wallet, bool) {
	if c == nil || c.rdb == nil {
		return Wallet{}, false
	}
	data, err := c.rdb.Get(ctx, walletKey(userID)).Bytes()
	if err != nil {
		return Wallet{}, false
	}
	var w Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return Wallet{}, false
	}
	return w, true
}

func (c *Cache) InvalidateWallet(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, walletKey(userID))
}

func (c *Cache) SaveTransactions(ctx context.Context, userID uuid.UUID, limit, offset int, txs []Transaction) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, historyKey(userID, limit, offset), data, c.ttl)
}

func (c *Cache) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, historyKey(userID, limit, offset)).Bytes()
	if err != nil {
		return nil, false
	}
	var txs []Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, false
	}
	return txs, true
}
