package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/AzielCF/az-study/infrastructure/valkey"
	"github.com/AzielCF/az-study/studyengine/domain"
)

const (
	contextLockSuffix  = ":lock"
	contextLockTTL     = 2 * time.Second
	contextLockWait    = 50 * time.Millisecond
	contextLockRetries = 10

	// DefaultContextTTL es la vida de una sesión inactiva en Valkey.
	DefaultContextTTL = 4 * time.Hour
)

// Lua script for atomic lock release (only delete if the token matches).
const releaseContextLockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// contextEntry es la representación serializada de una sesión en Valkey.
// NextChunk soporta la estrategia de truncado rotativo entre réplicas.
type contextEntry struct {
	Session   domain.SessionContext `json:"session"`
	NextChunk int                   `json:"next_chunk"`
}

// ValkeyContextStore implements domain.ContextStore backed by Valkey.
// Per-session mutations are serialized with a distributed lock so replicas
// cannot interleave appends on the same session.
type ValkeyContextStore struct {
	client   *valkey.Client
	prefix   string
	ttl      time.Duration
	strategy domain.TruncateStrategy
}

// NewValkeyContextStore creates a store over an established valkey client.
func NewValkeyContextStore(client *valkey.Client, ttl time.Duration, strategy domain.TruncateStrategy) *ValkeyContextStore {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	if strategy == "" {
		strategy = domain.TruncateFirstChunk
	}
	return &ValkeyContextStore{
		client:   client,
		prefix:   client.Key("context") + ":",
		ttl:      ttl,
		strategy: strategy,
	}
}

func (s *ValkeyContextStore) fullKey(sessionID string) string {
	return s.prefix + sessionID
}

func (s *ValkeyContextStore) inner() valkeylib.Client {
	return s.client.Inner()
}

func (s *ValkeyContextStore) GetOrCreate(ctx context.Context, sessionID string) (*domain.SessionContext, error) {
	entry, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = s.emptyEntry(sessionID)
		if err := s.save(ctx, sessionID, entry); err != nil {
			return nil, err
		}
	}
	return entry.Session.Clone(), nil
}

func (s *ValkeyContextStore) AddFile(ctx context.Context, sessionID string, file domain.FileRecord) error {
	return s.mutate(ctx, sessionID, func(entry *contextEntry) {
		upsertFile(&entry.Session, file)
		appendTurn(&entry.Session, domain.RoleSystem, uploadNotice(file))
		entry.Session.LastUpdated = time.Now()
	})
}

func (s *ValkeyContextStore) FileContent(ctx context.Context, sessionID string, maxTokens int) (string, error) {
	var content string
	err := s.mutate(ctx, sessionID, func(entry *contextEntry) {
		var truncated bool
		content, truncated = boundedFileContent(&entry.Session, maxTokens, s.strategy, entry.NextChunk)
		if truncated && s.strategy == domain.TruncateRotate {
			entry.NextChunk++
		}
	})
	return content, err
}

func (s *ValkeyContextStore) AppendTurn(ctx context.Context, sessionID string, role domain.Role, text string) error {
	return s.mutate(ctx, sessionID, func(entry *contextEntry) {
		appendTurn(&entry.Session, role, text)
		entry.Session.LastUpdated = time.Now()
	})
}

func (s *ValkeyContextStore) Evict(ctx context.Context, sessionID string) error {
	cmd := s.inner().B().Del().Key(s.fullKey(sessionID)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to evict session context: %w", err)
	}
	return nil
}

func (s *ValkeyContextStore) emptyEntry(sessionID string) *contextEntry {
	return &contextEntry{
		Session: domain.SessionContext{
			SessionID:   sessionID,
			Files:       []domain.FileRecord{},
			History:     []domain.ChatTurn{},
			LastUpdated: time.Now(),
		},
	}
}

// mutate ejecuta fn sobre la entrada bajo el lock distribuido de la sesión.
func (s *ValkeyContextStore) mutate(ctx context.Context, sessionID string, fn func(*contextEntry)) error {
	token, err := s.acquireLock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer s.releaseLock(ctx, sessionID, token)

	entry, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = s.emptyEntry(sessionID)
	}
	fn(entry)
	return s.save(ctx, sessionID, entry)
}

func (s *ValkeyContextStore) load(ctx context.Context, sessionID string) (*contextEntry, error) {
	cmd := s.inner().B().Get().Key(s.fullKey(sessionID)).Build()
	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session context: %w", err)
	}
	var entry contextEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session context: %w", err)
	}
	return &entry, nil
}

func (s *ValkeyContextStore) save(ctx context.Context, sessionID string, entry *contextEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session context: %w", err)
	}
	cmd := s.inner().B().Set().
		Key(s.fullKey(sessionID)).
		Value(string(data)).
		Ex(s.ttl).
		Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save session context: %w", err)
	}
	return nil
}

func (s *ValkeyContextStore) acquireLock(ctx context.Context, sessionID string) (string, error) {
	lockKey := s.fullKey(sessionID) + contextLockSuffix
	token := uuid.NewString()

	for attempt := 0; attempt < contextLockRetries; attempt++ {
		cmd := s.inner().B().Set().
			Key(lockKey).
			Value(token).
			Nx().
			Px(contextLockTTL).
			Build()
		err := s.inner().Do(ctx, cmd).Error()
		if err == nil {
			return token, nil
		}
		if !valkey.IsNil(err) {
			return "", fmt.Errorf("failed to acquire session lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(contextLockWait):
		}
	}
	return "", fmt.Errorf("session %s is locked by another writer", sessionID)
}

func (s *ValkeyContextStore) releaseLock(ctx context.Context, sessionID, token string) {
	lockKey := s.fullKey(sessionID) + contextLockSuffix
	err := s.inner().Do(ctx, s.inner().B().Eval().
		Script(releaseContextLockScript).
		Numkeys(1).
		Key(lockKey).
		Arg(token).
		Build()).Error()
	if err != nil {
		logrus.WithField("session", sessionID).WithError(err).Warn("[CONTEXT] failed to release session lock")
	}
}
