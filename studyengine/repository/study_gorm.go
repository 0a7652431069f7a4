package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AzielCF/az-study/studyengine/domain"
)

// StudyContentRepository persiste los artefactos generados para poder
// recuperarlos después de que la sesión efímera expire.
type StudyContentRepository interface {
	SaveFlashcardSet(ctx context.Context, set domain.FlashcardSet) error
	ListFlashcardSets(ctx context.Context, sessionID string) ([]domain.FlashcardSet, error)
	SaveQuiz(ctx context.Context, sessionID, id string, quiz domain.Quiz) error
	ListQuizzes(ctx context.Context, sessionID string) ([]domain.SavedQuiz, error)
	SaveStudyNote(ctx context.Context, note domain.StudyNote) error
	ListStudyNotes(ctx context.Context, sessionID string) ([]domain.StudyNote, error)
}

// --- Persistence Models ---

type flashcardSetModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	Topic     string    `gorm:"column:topic"`
	Cards     string    `gorm:"column:cards;type:text"` // JSON
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (flashcardSetModel) TableName() string { return "flashcard_sets" }

type quizModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	Title     string    `gorm:"column:title"`
	Questions string    `gorm:"column:questions;type:text"` // JSON
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (quizModel) TableName() string { return "quizzes" }

type studyNoteModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	Topic     string    `gorm:"column:topic"`
	Format    string    `gorm:"column:format"`
	Content   string    `gorm:"column:content;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (studyNoteModel) TableName() string { return "study_notes" }

type StudyGormRepository struct {
	db *gorm.DB
}

func NewStudyGormRepository(db *gorm.DB) (*StudyGormRepository, error) {
	if err := db.AutoMigrate(&flashcardSetModel{}, &quizModel{}, &studyNoteModel{}); err != nil {
		return nil, fmt.Errorf("migrate study content tables: %w", err)
	}
	return &StudyGormRepository{db: db}, nil
}

func (r *StudyGormRepository) SaveFlashcardSet(ctx context.Context, set domain.FlashcardSet) error {
	cards, err := json.Marshal(set.Cards)
	if err != nil {
		return err
	}
	model := flashcardSetModel{
		ID:        set.ID,
		SessionID: set.SessionID,
		Topic:     set.Topic,
		Cards:     string(cards),
		CreatedAt: set.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *StudyGormRepository) ListFlashcardSets(ctx context.Context, sessionID string) ([]domain.FlashcardSet, error) {
	var models []flashcardSetModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	sets := make([]domain.FlashcardSet, 0, len(models))
	for _, m := range models {
		var cards []domain.Flashcard
		if err := json.Unmarshal([]byte(m.Cards), &cards); err != nil {
			return nil, fmt.Errorf("decode flashcard set %s: %w", m.ID, err)
		}
		sets = append(sets, domain.FlashcardSet{
			ID:        m.ID,
			SessionID: m.SessionID,
			Topic:     m.Topic,
			Cards:     cards,
			CreatedAt: m.CreatedAt,
		})
	}
	return sets, nil
}

func (r *StudyGormRepository) SaveQuiz(ctx context.Context, sessionID, id string, quiz domain.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return err
	}
	model := quizModel{
		ID:        id,
		SessionID: sessionID,
		Title:     quiz.Title,
		Questions: string(questions),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *StudyGormRepository) ListQuizzes(ctx context.Context, sessionID string) ([]domain.SavedQuiz, error) {
	var models []quizModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	quizzes := make([]domain.SavedQuiz, 0, len(models))
	for _, m := range models {
		var questions []domain.QuizQuestion
		if err := json.Unmarshal([]byte(m.Questions), &questions); err != nil {
			return nil, fmt.Errorf("decode quiz %s: %w", m.ID, err)
		}
		quizzes = append(quizzes, domain.SavedQuiz{
			ID:        m.ID,
			SessionID: m.SessionID,
			CreatedAt: m.CreatedAt,
			Quiz:      domain.Quiz{Title: m.Title, Questions: questions},
		})
	}
	return quizzes, nil
}

func (r *StudyGormRepository) SaveStudyNote(ctx context.Context, note domain.StudyNote) error {
	model := studyNoteModel{
		ID:        note.ID,
		SessionID: note.SessionID,
		Topic:     note.Topic,
		Format:    string(note.Format),
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *StudyGormRepository) ListStudyNotes(ctx context.Context, sessionID string) ([]domain.StudyNote, error) {
	var models []studyNoteModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	notes := make([]domain.StudyNote, 0, len(models))
	for _, m := range models {
		notes = append(notes, domain.StudyNote{
			ID:        m.ID,
			SessionID: m.SessionID,
			Topic:     m.Topic,
			Format:    domain.StudyFormat(m.Format),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return notes, nil
}
