package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/slicehaven/storefront-backend/pkg/enums"
	redisclient "github.com/slicehaven/storefront-backend/pkg/redis"
)

const (
	valueFulfillment    = "chosen_fulfillment"
	valueShippingMethod = "chosen_shipping_method"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionValueKey(sessionID, name string) string
}

// Manager owns the session-scoped checkout state: the fulfillment choice and
// the chosen shipping method. Values are overwritten on each new submission
// and expire with the session TTL.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// NewSessionID produces the identifier handed to the menu client with the
// mount payload.
func NewSessionID() string {
	return uuid.NewString()
}

// SetFulfillment records the coarse pickup/delivery choice. Later submissions
// overwrite earlier ones within the same session.
func (m *Manager) SetFulfillment(ctx context.Context, sessionID string, choice enums.FulfillmentType) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if !choice.IsValid() {
		return fmt.Errorf("invalid fulfillment type %q", choice)
	}
	key := m.keyer.SessionValueKey(sessionID, valueFulfillment)
	return m.store.Set(ctx, key, choice.String(), m.ttl)
}

// Fulfillment returns the recorded choice, defaulting to delivery when the
// session has never submitted one.
func (m *Manager) Fulfillment(ctx context.Context, sessionID string) (enums.FulfillmentType, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	key := m.keyer.SessionValueKey(sessionID, valueFulfillment)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return enums.FulfillmentDelivery, nil
		}
		return "", err
	}
	choice, err := enums.ParseFulfillmentType(raw)
	if err != nil {
		return enums.FulfillmentDelivery, nil
	}
	return choice, nil
}

// SetShippingMethod records the raw chosen shipping method identifier.
func (m *Manager) SetShippingMethod(ctx context.Context, sessionID, methodID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	key := m.keyer.SessionValueKey(sessionID, valueShippingMethod)
	return m.store.Set(ctx, key, methodID, m.ttl)
}

// ShippingMethod returns the raw chosen method id, empty when none selected.
func (m *Manager) ShippingMethod(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	key := m.keyer.SessionValueKey(sessionID, valueShippingMethod)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", err
	}
	return raw, nil
}

// Clear drops all session-scoped checkout values.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx,
		m.keyer.SessionValueKey(sessionID, valueFulfillment),
		m.keyer.SessionValueKey(sessionID, valueShippingMethod),
	)
}
