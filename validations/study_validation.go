package validations

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainSession "github.com/AzielCF/az-study/domains/session"
	domainStudy "github.com/AzielCF/az-study/domains/study"
	pkgError "github.com/AzielCF/az-study/pkg/error"
)

// El id de sesión nombra directorios en disco y claves en Valkey, así que
// se restringe a un identificador plano: nada de separadores de ruta.
var sessionIDFormat = validation.Match(regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)).
	Error("must be alphanumeric, optionally with dashes or underscores")

func ValidateGenerateFlashcards(ctx context.Context, request domainStudy.GenerateFlashcardsRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.Material, validation.Required),
		validation.Field(&request.Count, validation.Min(0), validation.Max(50)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateGenerateQuiz(ctx context.Context, request domainStudy.GenerateQuizRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.Material, validation.Required.When(request.Topic == "")),
		validation.Field(&request.QuestionCount, validation.Min(0), validation.Max(50)),
		validation.Field(&request.Difficulty, validation.In("", "easy", "medium", "hard")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateGenerateMaterial(ctx context.Context, request domainStudy.GenerateMaterialRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.Topic, validation.Required),
		validation.Field(&request.Format, validation.In("", "notes", "outline", "summary")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateGenerateAnswer(ctx context.Context, request domainStudy.GenerateAnswerRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.Question, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUploadFile(ctx context.Context, request domainSession.UploadFileRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.FileName, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	if len(request.Blob) == 0 {
		return pkgError.ValidationError("file: cannot be empty.")
	}

	return nil
}

func ValidateChat(ctx context.Context, request domainSession.ChatRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required, sessionIDFormat),
		validation.Field(&request.Message, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
