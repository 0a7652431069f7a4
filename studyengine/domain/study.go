package domain

import "time"

// Flashcard es una tarjeta de estudio generada. Mastered siempre nace en false.
type Flashcard struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Mastered bool   `json:"mastered"`
}

// QuizQuestion is a single multiple-choice question with exactly four options.
// CorrectAnswer indexes into Options.
type QuizQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Quiz agrupa las preguntas generadas bajo un título.
type Quiz struct {
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

// IngestResult es el resumen y los temas extraídos de un archivo subido.
type IngestResult struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// ChatReply separa el cuerpo de la respuesta de las preguntas sugeridas
// que el modelo anexa tras el marcador de profundización.
type ChatReply struct {
	MainText           string   `json:"main_text"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// FlashcardSet es el artefacto persistido de una generación de tarjetas.
type FlashcardSet struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Topic     string      `json:"topic"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// SavedQuiz envuelve un Quiz con su identidad de persistencia.
type SavedQuiz struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Quiz      Quiz      `json:"quiz"`
}

// StudyNote es el material de estudio generado y guardado.
type StudyNote struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Topic     string      `json:"topic"`
	Format    StudyFormat `json:"format"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// StudyFormat define la forma del material de estudio generado.
type StudyFormat string

const (
	FormatNotes   StudyFormat = "notes"
	FormatOutline StudyFormat = "outline"
	FormatSummary StudyFormat = "summary"
)
