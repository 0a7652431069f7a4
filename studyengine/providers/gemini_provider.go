package providers

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/AzielCF/az-study/studyengine/domain"
)

// GeminiProvider is the adapter for the Google Gemini API.
type GeminiProvider struct {
	apiKey string
}

// NewGeminiProvider creates a new Gemini provider bound to an API key.
func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey}
}

// Complete implementa domain.CompletionProvider enviando la petición a Gemini.
// Los turnos system se agregan como SystemInstruction; el resto se convierte
// a contents user/model.
func (p *GeminiProvider) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", &domain.AuthenticationError{Message: "no API key configured"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	var contents []*genai.Content
	var system string
	for _, turn := range req.Messages {
		switch turn.Role {
		case domain.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += turn.Text
		case domain.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: turn.Text}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: turn.Text}},
			})
		}
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, "")
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := result.Text()
	if text == "" {
		return "", &domain.MalformedResponseError{Detail: "empty candidate content"}
	}

	logrus.WithField("model", req.Model).Debug("[GEMINI] completion finished")
	return text, nil
}

func classifyGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return domain.ClassifyAPIError(apierr.Code, apierr.Message)
	}
	return &domain.UnknownAPIError{Message: err.Error()}
}
