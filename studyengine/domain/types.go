package domain

import "time"

// Role identifica al autor de un turno de conversación
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatTurn represents a single turn in a conversation.
// Turns are immutable once appended to a session.
type ChatTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// FileRecord representa un archivo adjunto a una sesión de estudio.
// El texto extraído puede estar vacío si la extracción se degradó.
type FileRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  string `json:"content,omitempty"`
}

// SessionContext holds the ephemeral per-session state: attached files
// and a bounded conversation history. It lives only in process memory
// (or in Valkey with a TTL when the distributed store is enabled).
type SessionContext struct {
	SessionID   string       `json:"session_id"`
	Files       []FileRecord `json:"files"`
	History     []ChatTurn   `json:"history"`
	LastUpdated time.Time    `json:"last_updated"`
}

// Clone returns a deep copy so callers can read without holding store locks.
func (s *SessionContext) Clone() *SessionContext {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Files != nil {
		clone.Files = make([]FileRecord, len(s.Files))
		copy(clone.Files, s.Files)
	}
	if s.History != nil {
		clone.History = make([]ChatTurn, len(s.History))
		copy(clone.History, s.History)
	}
	return &clone
}

// HistoryLimit es el máximo de turnos retenidos por sesión.
// Las peticiones individuales usan una ventana más estrecha (RequestHistoryWindow).
const (
	HistoryLimit         = 10
	RequestHistoryWindow = 5
)

// ModelLimits declares the token budgets of a completion model.
type ModelLimits struct {
	MaxOutputTokens int
	InputTokenLimit int
}

// DefaultModel is used when the caller does not name a model, and as the
// fallback entry for unrecognized models.
const DefaultModel = "gpt-4"

// ModelLimitTable maps known model identifiers to their declared budgets.
var ModelLimitTable = map[string]ModelLimits{
	"gpt-4":         {MaxOutputTokens: 8192, InputTokenLimit: 6000},
	"gpt-4-turbo":   {MaxOutputTokens: 128000, InputTokenLimit: 100000},
	"gpt-3.5-turbo": {MaxOutputTokens: 4096, InputTokenLimit: 3000},
}

// LimitsFor resuelve los límites de un modelo, con fallback al default.
func LimitsFor(model string) ModelLimits {
	if limits, ok := ModelLimitTable[model]; ok {
		return limits
	}
	return ModelLimitTable[DefaultModel]
}

// CompletionRequest es la petición ya acotada que recibe un proveedor.
// El ensamblador garantiza que Messages cabe en el límite de entrada del modelo.
type CompletionRequest struct {
	Model       string     `json:"model"`
	Messages    []ChatTurn `json:"messages"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"max_tokens"`
}
