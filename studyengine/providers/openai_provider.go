package providers

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-study/studyengine/domain"
)

// OpenAIProvider is the adapter for the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey string
}

// NewOpenAIProvider creates a new OpenAI provider bound to an API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey}
}

// Complete implementa domain.CompletionProvider para OpenAI.
// Los fallos upstream nunca se propagan en crudo: se clasifican en la
// taxonomía tipada del dominio.
func (p *OpenAIProvider) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", &domain.AuthenticationError{Message: "no API key configured"}
	}

	client := openai.NewClient(option.WithAPIKey(p.apiKey))

	model := req.Model
	if model == "" {
		model = domain.DefaultModel
	}

	var messages []openai.ChatCompletionMessageParamUnion
	for _, turn := range req.Messages {
		switch turn.Role {
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &domain.MalformedResponseError{Detail: "missing choices[0].message.content"}
	}

	text := completion.Choices[0].Message.Content

	logrus.WithFields(logrus.Fields{
		"model":         model,
		"input_tokens":  completion.Usage.PromptTokens,
		"output_tokens": completion.Usage.CompletionTokens,
	}).Debug("[OPENAI] completion finished")

	return text, nil
}

// classifyOpenAIError extrae status y mensaje del error del SDK y lo mapea
// a la taxonomía. Errores de contexto (cancelación) se devuelven tal cual.
func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return domain.ClassifyAPIError(apierr.StatusCode, apierr.Message)
	}
	return &domain.UnknownAPIError{Message: err.Error()}
}
