package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	domainStudy "github.com/AzielCF/az-study/domains/study"
	"github.com/AzielCF/az-study/pkg/utils"
	engine "github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/ui/rest/middleware"
)

type stubStudyUsecase struct {
	listErr error
}

func (s *stubStudyUsecase) GenerateFlashcards(ctx context.Context, req domainStudy.GenerateFlashcardsRequest) (engine.FlashcardSet, error) {
	return engine.FlashcardSet{}, nil
}

func (s *stubStudyUsecase) GenerateQuiz(ctx context.Context, req domainStudy.GenerateQuizRequest) (engine.SavedQuiz, error) {
	return engine.SavedQuiz{}, nil
}

func (s *stubStudyUsecase) GenerateStudyMaterial(ctx context.Context, req domainStudy.GenerateMaterialRequest) (engine.StudyNote, error) {
	return engine.StudyNote{}, nil
}

func (s *stubStudyUsecase) GenerateLongAnswer(ctx context.Context, req domainStudy.GenerateAnswerRequest) (string, error) {
	return "", nil
}

func (s *stubStudyUsecase) ListFlashcardSets(ctx context.Context, sessionID string) ([]engine.FlashcardSet, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []engine.FlashcardSet{}, nil
}

func (s *stubStudyUsecase) ListQuizzes(ctx context.Context, sessionID string) ([]engine.SavedQuiz, error) {
	return nil, nil
}

func (s *stubStudyUsecase) ListStudyNotes(ctx context.Context, sessionID string) ([]engine.StudyNote, error) {
	return nil, nil
}

func TestListFlashcardSets_RepositoryErrorIsRecovered(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestStudy(app, &stubStudyUsecase{listErr: errors.New("database gone")})

	req := httptest.NewRequest(http.MethodGet, "/study/sessions/s1/flashcards", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var body utils.ResponseData
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unexpected error code %q", body.Code)
	}
}

func TestListFlashcardSets_EmptySessionReturnsOK(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestStudy(app, &stubStudyUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/study/sessions/s1/flashcards", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}
