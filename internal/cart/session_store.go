package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	redispkg "github.com/aurumid/goldpos-backend/pkg/redis"
)

type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(branchID, cartID string) string
}

// SessionStore persists the active cart between requests so a terminal can
// survive a page refresh without losing the sale in progress.
type SessionStore interface {
	Load(ctx context.Context, branchID, cartID string) (*Cart, error)
	Save(ctx context.Context, branchID, cartID string, cart *Cart) error
	Delete(ctx context.Context, branchID, cartID string) error
}

type redisSessionStore struct {
	kv  cartKV
	ttl time.Duration
}

// NewRedisSessionStore wires a redis-backed session store. A zero TTL keeps
// carts until they are explicitly cleared.
func NewRedisSessionStore(kv cartKV, ttl time.Duration) (SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisSessionStore{kv: kv, ttl: ttl}, nil
}

// Load returns the stored cart, or a fresh empty cart when none exists yet.
func (s *redisSessionStore) Load(ctx context.Context, branchID, cartID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(branchID, cartID))
	if err != nil {
		if redispkg.IsNil(err) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}
	cart := NewCart()
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart session")
	}
	return cart, nil
}

func (s *redisSessionStore) Save(ctx context.Context, branchID, cartID string, cart *Cart) error {
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cannot save nil cart")
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart session")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(branchID, cartID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, branchID, cartID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(branchID, cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart session")
	}
	return nil
}
