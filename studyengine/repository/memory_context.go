package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/textkit"
)

// MemoryContextStore is the in-memory implementation of domain.ContextStore.
// Used as the default backend; sessions live only for the process lifetime
// (or until the optional TTL evicts them).
type MemoryContextStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.SessionContext
	rotation map[string]int // session -> siguiente chunk bajo TruncateRotate
	strategy domain.TruncateStrategy
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// MemoryOption configura el store en construcción.
type MemoryOption func(*MemoryContextStore)

// WithTTL enables background eviction of sessions idle for longer than ttl.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryContextStore) { s.ttl = ttl }
}

// WithTruncateStrategy selects the overflow policy of FileContent.
func WithTruncateStrategy(strategy domain.TruncateStrategy) MemoryOption {
	return func(s *MemoryContextStore) { s.strategy = strategy }
}

// NewMemoryContextStore creates a new in-memory context store.
func NewMemoryContextStore(opts ...MemoryOption) *MemoryContextStore {
	store := &MemoryContextStore{
		sessions: make(map[string]*domain.SessionContext),
		rotation: make(map[string]int),
		strategy: domain.TruncateFirstChunk,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.ttl > 0 {
		go store.cleanupLoop()
	}
	return store
}

// Close detiene el loop de limpieza. Seguro de llamar más de una vez.
func (s *MemoryContextStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryContextStore) GetOrCreate(ctx context.Context, sessionID string) (*domain.SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).Clone(), nil
}

// getOrCreateLocked asume que el caller ya tiene el lock de escritura.
func (s *MemoryContextStore) getOrCreateLocked(sessionID string) *domain.SessionContext {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess := &domain.SessionContext{
		SessionID:   sessionID,
		Files:       []domain.FileRecord{},
		History:     []domain.ChatTurn{},
		LastUpdated: time.Now(),
	}
	s.sessions[sessionID] = sess
	return sess
}

func (s *MemoryContextStore) AddFile(ctx context.Context, sessionID string, file domain.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(sessionID)
	upsertFile(sess, file)
	appendTurn(sess, domain.RoleSystem, uploadNotice(file))
	sess.LastUpdated = time.Now()

	logrus.WithFields(logrus.Fields{
		"session": sessionID,
		"file":    file.Name,
		"total":   len(sess.Files),
	}).Debug("[CONTEXT] file added to session")
	return nil
}

func (s *MemoryContextStore) FileContent(ctx context.Context, sessionID string, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(sessionID)
	content, truncated := boundedFileContent(sess, maxTokens, s.strategy, s.rotation[sessionID])
	if truncated && s.strategy == domain.TruncateRotate {
		s.rotation[sessionID]++
	}
	return content, nil
}

func (s *MemoryContextStore) AppendTurn(ctx context.Context, sessionID string, role domain.Role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(sessionID)
	appendTurn(sess, role, text)
	sess.LastUpdated = time.Now()
	return nil
}

func (s *MemoryContextStore) Evict(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	delete(s.rotation, sessionID)
	return nil
}

func (s *MemoryContextStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.ttl)
			s.mu.Lock()
			for id, sess := range s.sessions {
				if sess.LastUpdated.Before(cutoff) {
					delete(s.sessions, id)
					delete(s.rotation, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// --- Helpers compartidos con el store de Valkey ---

// upsertFile reemplaza por id si existe, si no lo añade al final.
// La lista de archivos nunca contiene ids duplicados.
func upsertFile(sess *domain.SessionContext, file domain.FileRecord) {
	for i, existing := range sess.Files {
		if existing.ID == file.ID {
			sess.Files[i] = file
			return
		}
	}
	sess.Files = append(sess.Files, file)
}

// appendTurn añade el turno y recorta al límite (los más antiguos caen primero).
func appendTurn(sess *domain.SessionContext, role domain.Role, text string) {
	sess.History = append(sess.History, domain.ChatTurn{Role: role, Text: text})
	if len(sess.History) > domain.HistoryLimit {
		sess.History = sess.History[len(sess.History)-domain.HistoryLimit:]
	}
}

func uploadNotice(file domain.FileRecord) string {
	hasContent := ""
	if file.Content != "" {
		hasContent = " (with content)"
	}
	return fmt.Sprintf("File uploaded: %q (%s)%s. Content is available for reference.",
		file.Name, file.MimeType, hasContent)
}

// boundedFileContent concatena el texto de todos los archivos con
// delimitadores por archivo y lo acota al presupuesto de tokens.
// Devuelve (contenido, truncado).
func boundedFileContent(sess *domain.SessionContext, maxTokens int, strategy domain.TruncateStrategy, next int) (string, bool) {
	if len(sess.Files) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(sess.Files))
	for _, f := range sess.Files {
		if f.Content != "" {
			parts = append(parts, fmt.Sprintf("\n\n--- Content from %s ---\n%s\n--- End of %s ---", f.Name, f.Content, f.Name))
		} else {
			parts = append(parts, fmt.Sprintf("\n\n--- File: %s (%s) - Content not available ---", f.Name, f.MimeType))
		}
	}
	all := strings.Join(parts, "\n")

	estimated := textkit.EstimateTokens(all)
	if estimated <= maxTokens {
		return all, false
	}

	chunks := textkit.Chunk(all, textkit.TokensToChars(maxTokens))
	idx := 0
	section := "first"
	if strategy == domain.TruncateRotate && len(chunks) > 0 {
		idx = next % len(chunks)
		section = fmt.Sprintf("%d/%d", idx+1, len(chunks))
	}
	note := fmt.Sprintf("\n\n[Note: File content is large (%d tokens). Showing %s section. Total %d files available.]",
		estimated, section, len(sess.Files))
	if len(chunks) == 0 {
		return note, true
	}
	return chunks[idx] + note, true
}
