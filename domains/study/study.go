package study

import (
	"context"

	engine "github.com/AzielCF/az-study/studyengine/domain"
)

type GenerateFlashcardsRequest struct {
	SessionID  string `json:"session_id"`
	Material   string `json:"material"`
	Count      int    `json:"count"`
	Complexity string `json:"complexity"`
}

type GenerateQuizRequest struct {
	SessionID           string `json:"session_id"`
	Material            string `json:"material"`
	QuestionCount       int    `json:"question_count"`
	Difficulty          string `json:"difficulty"`
	Topic               string `json:"topic"`
	IncludeExplanations bool   `json:"include_explanations"`
}

type GenerateMaterialRequest struct {
	SessionID  string `json:"session_id"`
	Topic      string `json:"topic"`
	Format     string `json:"format"`
	Complexity string `json:"complexity"`
}

type GenerateAnswerRequest struct {
	SessionID  string `json:"session_id"`
	Question   string `json:"question"`
	Complexity string `json:"complexity"`
}

type StudyMaterialResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type IStudyUsecase interface {
	GenerateFlashcards(ctx context.Context, req GenerateFlashcardsRequest) (engine.FlashcardSet, error)
	GenerateQuiz(ctx context.Context, req GenerateQuizRequest) (engine.SavedQuiz, error)
	GenerateStudyMaterial(ctx context.Context, req GenerateMaterialRequest) (engine.StudyNote, error)
	GenerateLongAnswer(ctx context.Context, req GenerateAnswerRequest) (string, error)
	ListFlashcardSets(ctx context.Context, sessionID string) ([]engine.FlashcardSet, error)
	ListQuizzes(ctx context.Context, sessionID string) ([]engine.SavedQuiz, error)
	ListStudyNotes(ctx context.Context, sessionID string) ([]engine.StudyNote, error)
}
