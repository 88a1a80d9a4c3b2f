package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Store persists whole carts keyed by session id.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each cart as one JSON document with a sliding TTL.
type RedisStore struct {
	kv  keyValue
	ttl time.Duration
}

// NewRedisStore builds a cart store on the shared redis client.
func NewRedisStore(kv keyValue, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{kv: kv, ttl: ttl}, nil
}

// Load returns the stored cart, or an empty one when the session has none.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if redis.IsNil(err) {
		return New(), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	c := New()
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored cart")
	}
	return c, nil
}

// Save writes the cart and refreshes its TTL. An empty cart deletes the key.
func (s *RedisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if c == nil || c.IsEmpty() {
		if err := s.Delete(ctx, sessionID); err != nil {
			return err
		}
		if c != nil {
			c.MarkClean()
		}
		return nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	c.MarkClean()
	return nil
}

// Delete drops the stored cart.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// SaveIfDirty persists c only when it changed.
func SaveIfDirty(ctx context.Context, store Store, sessionID string, c *Cart) error {
	if c == nil || !c.Dirty() {
		return nil
	}
	return store.Save(ctx, sessionID, c)
}
