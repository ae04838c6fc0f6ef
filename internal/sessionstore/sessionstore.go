// Package sessionstore holds the conversational state machine's
// session-scoped records (§3, §4.E) in Redis with a uniform TTL,
// resolving the spec's Open Question on state expiry.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aditeya/ragtenant/internal/types"
	"github.com/redis/go-redis/v9"
)

// Store is the Redis-backed session state backend. Every key it writes
// carries types.SessionTTL (600s), matching conversation_context's
// lifetime rather than leaving the name/lead collection maps unbounded.
type Store struct {
	client *redis.Client
}

// New builds a Store against a Redis endpoint.
func New(addr string) *Store {
	return &Store{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func conversationKey(tenantID, sessionID string) string {
	return fmt.Sprintf("conv:%s:%s", tenantID, sessionID)
}

func nameStateKey(tenantID, sessionID string) string {
	return fmt.Sprintf("name:%s:%s", tenantID, sessionID)
}

func leadStateKey(tenantID, sessionID string) string {
	return fmt.Sprintf("lead:%s:%s", tenantID, sessionID)
}

func set(ctx context.Context, client *redis.Client, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return client.Set(ctx, key, data, types.SessionTTL).Err()
}

func get[T any](ctx context.Context, client *redis.Client, key string) (*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &value, nil
}

// GetConversation returns a session's conversation context, or nil if
// expired/never created.
func (s *Store) GetConversation(ctx context.Context, tenantID, sessionID string) (*types.ConversationContext, error) {
	return get[types.ConversationContext](ctx, s.client, conversationKey(tenantID, sessionID))
}

// SaveConversation writes (and refreshes the TTL of) a session's
// conversation context.
func (s *Store) SaveConversation(ctx context.Context, cc types.ConversationContext) error {
	return set(ctx, s.client, conversationKey(cc.TenantID, cc.SessionID), cc)
}

// GetNameState returns a session's name-collection state.
func (s *Store) GetNameState(ctx context.Context, tenantID, sessionID string) (*types.NameCollectionState, error) {
	return get[types.NameCollectionState](ctx, s.client, nameStateKey(tenantID, sessionID))
}

// SaveNameState writes a session's name-collection state.
func (s *Store) SaveNameState(ctx context.Context, tenantID string, st types.NameCollectionState) error {
	return set(ctx, s.client, nameStateKey(tenantID, st.SessionID), st)
}

// GetLeadState returns a session's lead-collection state.
func (s *Store) GetLeadState(ctx context.Context, tenantID, sessionID string) (*types.LeadCollectionState, error) {
	return get[types.LeadCollectionState](ctx, s.client, leadStateKey(tenantID, sessionID))
}

// SaveLeadState writes a session's lead-collection state.
func (s *Store) SaveLeadState(ctx context.Context, tenantID string, st types.LeadCollectionState) error {
	return set(ctx, s.client, leadStateKey(tenantID, st.SessionID), st)
}

// ClearSession removes all three state maps for a session, e.g. once a
// lead has been fully captured and the flow resets.
func (s *Store) ClearSession(ctx context.Context, tenantID, sessionID string) error {
	return s.client.Del(ctx,
		conversationKey(tenantID, sessionID),
		nameStateKey(tenantID, sessionID),
		leadStateKey(tenantID, sessionID),
	).Err()
}

// Close releases the underlying Redis connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
