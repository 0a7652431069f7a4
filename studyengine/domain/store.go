package domain

import "context"

// TruncateStrategy decide qué porción del contexto de archivos se conserva
// cuando el contenido concatenado supera el presupuesto de tokens.
type TruncateStrategy string

const (
	// TruncateFirstChunk siempre devuelve el primer chunk (comportamiento clásico).
	TruncateFirstChunk TruncateStrategy = "first-chunk"
	// TruncateRotate rota el chunk devuelto en cada llamada para que, a lo
	// largo de varias peticiones, todo el material acabe pasando por el modelo.
	TruncateRotate TruncateStrategy = "rotate"
)

// ContextStore defines the contract for session context state.
// Implementations can be in-memory (default) or distributed (Valkey).
// All mutations on one session are serialized by the implementation;
// different sessions are fully independent.
type ContextStore interface {
	// GetOrCreate returns the context for sessionID, creating an empty one
	// on first access. The returned value is a copy safe to read.
	GetOrCreate(ctx context.Context, sessionID string) (*SessionContext, error)

	// AddFile upserts the file by id into the session's file list, appends
	// a synthetic system turn noting the upload and refreshes LastUpdated.
	AddFile(ctx context.Context, sessionID string, file FileRecord) error

	// FileContent concatenates every file's extracted text with per-file
	// delimiters. When the estimated token count exceeds maxTokens the
	// result is bounded by the chunker and annotated with what was omitted.
	FileContent(ctx context.Context, sessionID string, maxTokens int) (string, error)

	// AppendTurn appends a turn and trims history to the most recent
	// HistoryLimit entries, oldest dropped first.
	AppendTurn(ctx context.Context, sessionID string, role Role, text string) error

	// Evict removes the session context. No error if it did not exist.
	Evict(ctx context.Context, sessionID string) error
}
