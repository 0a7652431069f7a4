package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainStudy "github.com/AzielCF/az-study/domains/study"
	"github.com/AzielCF/az-study/studyengine/application"
	engine "github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/repository"
	"github.com/AzielCF/az-study/validations"
)

type studyService struct {
	engine *application.StudyService
	repo   repository.StudyContentRepository
}

// NewStudyService wires the study engine to the REST-facing contract.
// repo may be nil when persistence is disabled; generation still works.
func NewStudyService(engineService *application.StudyService, repo repository.StudyContentRepository) domainStudy.IStudyUsecase {
	return &studyService{engine: engineService, repo: repo}
}

func (s *studyService) GenerateFlashcards(ctx context.Context, req domainStudy.GenerateFlashcardsRequest) (engine.FlashcardSet, error) {
	if err := validations.ValidateGenerateFlashcards(ctx, req); err != nil {
		return engine.FlashcardSet{}, err
	}

	cards, err := s.engine.GenerateFlashcards(ctx, req.SessionID, req.Material, req.Count, req.Complexity)
	if err != nil {
		return engine.FlashcardSet{}, err
	}

	set := engine.FlashcardSet{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Topic:     topicLabel(req.Material),
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}
	s.persist(ctx, "flashcard set", func() error {
		return s.repo.SaveFlashcardSet(ctx, set)
	})
	return set, nil
}

func (s *studyService) GenerateQuiz(ctx context.Context, req domainStudy.GenerateQuizRequest) (engine.SavedQuiz, error) {
	if err := validations.ValidateGenerateQuiz(ctx, req); err != nil {
		return engine.SavedQuiz{}, err
	}

	quiz, err := s.engine.GenerateQuiz(ctx, req.SessionID, req.Material, req.QuestionCount, req.Difficulty, req.Topic, req.IncludeExplanations)
	if err != nil {
		return engine.SavedQuiz{}, err
	}

	saved := engine.SavedQuiz{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		CreatedAt: time.Now().UTC(),
		Quiz:      *quiz,
	}
	s.persist(ctx, "quiz", func() error {
		return s.repo.SaveQuiz(ctx, req.SessionID, saved.ID, *quiz)
	})
	return saved, nil
}

func (s *studyService) GenerateStudyMaterial(ctx context.Context, req domainStudy.GenerateMaterialRequest) (engine.StudyNote, error) {
	if err := validations.ValidateGenerateMaterial(ctx, req); err != nil {
		return engine.StudyNote{}, err
	}

	format := engine.StudyFormat(req.Format)
	if format == "" {
		format = engine.FormatNotes
	}

	content, err := s.engine.GenerateStudyMaterial(ctx, req.SessionID, req.Topic, format, req.Complexity)
	if err != nil {
		return engine.StudyNote{}, err
	}

	note := engine.StudyNote{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Topic:     req.Topic,
		Format:    format,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.persist(ctx, "study note", func() error {
		return s.repo.SaveStudyNote(ctx, note)
	})
	return note, nil
}

func (s *studyService) GenerateLongAnswer(ctx context.Context, req domainStudy.GenerateAnswerRequest) (string, error) {
	if err := validations.ValidateGenerateAnswer(ctx, req); err != nil {
		return "", err
	}
	return s.engine.GenerateLongAnswer(ctx, req.SessionID, req.Question, req.Complexity)
}

func (s *studyService) ListFlashcardSets(ctx context.Context, sessionID string) ([]engine.FlashcardSet, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListFlashcardSets(ctx, sessionID)
}

func (s *studyService) ListQuizzes(ctx context.Context, sessionID string) ([]engine.SavedQuiz, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListQuizzes(ctx, sessionID)
}

func (s *studyService) ListStudyNotes(ctx context.Context, sessionID string) ([]engine.StudyNote, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListStudyNotes(ctx, sessionID)
}

// persist guarda un artefacto best-effort: un fallo de base de datos no
// invalida la generación ya hecha.
func (s *studyService) persist(_ context.Context, what string, fn func() error) {
	if s.repo == nil {
		return
	}
	if err := fn(); err != nil {
		logrus.Warnf("[STUDY] could not persist %s: %v", what, err)
	}
}

func topicLabel(material string) string {
	const maxLabel = 80
	if len(material) <= maxLabel {
		return material
	}
	return material[:maxLabel] + "..."
}
