package validations

import (
	"context"
	"testing"

	domainSession "github.com/AzielCF/az-study/domains/session"
	domainStudy "github.com/AzielCF/az-study/domains/study"
	pkgError "github.com/AzielCF/az-study/pkg/error"
)

func TestValidateGenerateFlashcards(t *testing.T) {
	ctx := context.Background()

	ok := domainStudy.GenerateFlashcardsRequest{SessionID: "s1", Material: "cells", Count: 5}
	if err := ValidateGenerateFlashcards(ctx, ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missing := domainStudy.GenerateFlashcardsRequest{Count: 5}
	err := ValidateGenerateFlashcards(ctx, missing)
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	if _, isValidation := err.(pkgError.ValidationError); !isValidation {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	tooMany := domainStudy.GenerateFlashcardsRequest{SessionID: "s1", Material: "cells", Count: 80}
	if ValidateGenerateFlashcards(ctx, tooMany) == nil {
		t.Fatal("expected error for count over limit")
	}
}

func TestValidateGenerateQuizTopicSubstitutesMaterial(t *testing.T) {
	ctx := context.Background()

	withTopic := domainStudy.GenerateQuizRequest{SessionID: "s1", Topic: "biology", QuestionCount: 3}
	if err := ValidateGenerateQuiz(ctx, withTopic); err != nil {
		t.Fatalf("topic-only request rejected: %v", err)
	}

	neither := domainStudy.GenerateQuizRequest{SessionID: "s1", QuestionCount: 3}
	if ValidateGenerateQuiz(ctx, neither) == nil {
		t.Fatal("expected error when both material and topic are empty")
	}

	badDifficulty := domainStudy.GenerateQuizRequest{SessionID: "s1", Material: "m", Difficulty: "impossible"}
	if ValidateGenerateQuiz(ctx, badDifficulty) == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestValidateUploadFile(t *testing.T) {
	ctx := context.Background()

	ok := domainSession.UploadFileRequest{SessionID: "s1", FileName: "doc.pdf", Blob: []byte("%PDF")}
	if err := ValidateUploadFile(ctx, ok); err != nil {
		t.Fatalf("valid upload rejected: %v", err)
	}

	empty := domainSession.UploadFileRequest{SessionID: "s1", FileName: "doc.pdf"}
	if ValidateUploadFile(ctx, empty) == nil {
		t.Fatal("expected error for empty blob")
	}
}

func TestValidateUploadFileRejectsUnsafeSessionID(t *testing.T) {
	ctx := context.Background()

	// El id termina nombrando la carpeta de uploads: nada de rutas.
	for _, id := range []string{"../../etc", "a/b", "a\\b", ".", "..", "con espacios"} {
		req := domainSession.UploadFileRequest{SessionID: id, FileName: "doc.pdf", Blob: []byte("%PDF")}
		err := ValidateUploadFile(ctx, req)
		if err == nil {
			t.Fatalf("session id %q should be rejected", id)
		}
		if _, isValidation := err.(pkgError.ValidationError); !isValidation {
			t.Fatalf("expected ValidationError for %q, got %T", id, err)
		}
	}

	safe := domainSession.UploadFileRequest{SessionID: "sess_123-abc", FileName: "doc.pdf", Blob: []byte("%PDF")}
	if err := ValidateUploadFile(ctx, safe); err != nil {
		t.Fatalf("safe session id rejected: %v", err)
	}
}
