// Package application orquesta las operaciones de estudio: arma el contexto,
// respeta el rate limit, llama al proveedor de completions y normaliza las
// respuestas del modelo a estructuras tipadas.
package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-study/studyengine/assembler"
	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/ratelimit"
)

// Presupuestos de entrada por operación, en tokens estimados salvo el de
// ingesta, que se mide directamente en caracteres.
const (
	materialTokenBudget = 2000
	topicTokenBudget    = 1000
	ingestCharBudget    = 4000
)

const deepDiveMarker = "DEEP DIVE"

var suggestionRe = regexp.MustCompile(`(?m)^\s*-\s*(.+)$`)

// StudyService expone las operaciones de generación y chat sobre una sesión.
// Todas las llamadas al proveedor pasan por el mismo limitador, así que el
// espaciado mínimo entre peticiones se respeta aunque lleguen concurrentes.
type StudyService struct {
	provider  domain.CompletionProvider
	store     domain.ContextStore
	assembler *assembler.Assembler
	limiter   *ratelimit.Limiter
	model     string
}

func NewStudyService(provider domain.CompletionProvider, store domain.ContextStore, limiter *ratelimit.Limiter, model string) *StudyService {
	if model == "" {
		model = domain.DefaultModel
	}
	return &StudyService{
		provider:  provider,
		store:     store,
		assembler: assembler.New(store),
		limiter:   limiter,
		model:     model,
	}
}

type genOptions struct {
	model       string
	temperature float64
	maxTokens   int
}

// generate ejecuta una completion acotada contra el proveedor. Solo tras una
// respuesta exitosa se registran en el historial el prompt final (ya truncado,
// no el original) y la respuesta del asistente.
func (s *StudyService) generate(ctx context.Context, sessionID, prompt string, opts genOptions) (string, error) {
	model := opts.model
	if model == "" {
		model = s.model
	}
	limits := domain.LimitsFor(model)

	maxTokens := opts.maxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	if maxTokens > limits.MaxOutputTokens {
		maxTokens = limits.MaxOutputTokens
	}

	messages, err := s.assembler.Build(ctx, sessionID, model, prompt)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reply, err := s.provider.Complete(ctx, domain.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	finalPrompt := messages[len(messages)-1].Text
	if err := s.store.AppendTurn(ctx, sessionID, domain.RoleUser, finalPrompt); err != nil {
		logrus.WithField("session", sessionID).Warnf("[STUDY] could not record user turn: %v", err)
	}
	if err := s.store.AppendTurn(ctx, sessionID, domain.RoleAssistant, reply); err != nil {
		logrus.WithField("session", sessionID).Warnf("[STUDY] could not record assistant turn: %v", err)
	}

	return reply, nil
}

// GenerateFlashcards produce exactamente count tarjetas. Si el modelo no
// devuelve JSON válido se degrada a tarjetas construidas desde el texto crudo
// en lugar de fallar la operación.
func (s *StudyService) GenerateFlashcards(ctx context.Context, sessionID, material string, count int, complexity string) ([]domain.Flashcard, error) {
	if count <= 0 {
		count = 5
	}

	reply, err := s.generate(ctx, sessionID, flashcardPrompt(material, count, complexity), genOptions{
		temperature: 0.8,
		maxTokens:   1200,
	})
	if err != nil {
		return nil, err
	}

	var cards []domain.Flashcard
	if perr := ParseModelJSON(reply, &cards); perr != nil {
		logrus.WithField("session", sessionID).Errorf("[STUDY] flashcard response was not valid JSON: %v", perr)
		cards = fallbackFlashcards(reply, material, count)
	}

	// Normaliza al número pedido: recorta sobrantes y rellena faltantes.
	if len(cards) > count {
		cards = cards[:count]
	}
	for i := range cards {
		if cards[i].Front == "" {
			cards[i].Front = "Study question"
		}
		if cards[i].Back == "" {
			cards[i].Back = "Study this topic further"
		}
		cards[i].Mastered = false
	}
	for len(cards) < count {
		cards = append(cards, domain.Flashcard{
			Front: fmt.Sprintf("Additional question about %s...", head(material, 30)),
			Back:  "Continue studying this topic for better understanding.",
		})
	}
	return cards, nil
}

func fallbackFlashcards(reply, material string, count int) []domain.Flashcard {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	n := count
	if n > 3 {
		n = 3
	}
	cards := make([]domain.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		back := "Study this topic further for better understanding."
		if i < len(lines) {
			back = lines[i]
		}
		cards = append(cards, domain.Flashcard{
			Front: fmt.Sprintf("Question %d about %s...", i+1, head(material, 50)),
			Back:  back,
		})
	}
	return cards
}

// GenerateQuiz produce un cuestionario de opción múltiple con exactamente
// questionCount preguntas, con el mismo contrato de degradación que las
// flashcards.
func (s *StudyService) GenerateQuiz(ctx context.Context, sessionID, material string, questionCount int, difficulty, topic string, includeExplanations bool) (*domain.Quiz, error) {
	if questionCount <= 0 {
		questionCount = 5
	}

	reply, err := s.generate(ctx, sessionID, quizPrompt(material, questionCount, difficulty, topic, includeExplanations), genOptions{
		temperature: 0.7,
		maxTokens:   1500,
	})
	if err != nil {
		return nil, err
	}

	var quiz domain.Quiz
	if perr := ParseModelJSON(reply, &quiz); perr != nil {
		logrus.WithField("session", sessionID).Errorf("[STUDY] quiz response was not valid JSON: %v", perr)
		quiz = fallbackQuiz(material, topic)
	}

	for len(quiz.Questions) < questionCount {
		quiz.Questions = append(quiz.Questions, domain.QuizQuestion{
			Text:          fmt.Sprintf("Question %d about %s...", len(quiz.Questions)+1, quizSubject(material, topic)),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: 0,
			Explanation:   "Study this topic further for better understanding.",
		})
	}
	quiz.Questions = quiz.Questions[:questionCount]

	return &quiz, nil
}

func quizSubject(material, topic string) string {
	if topic != "" {
		return topic
	}
	return head(material, 30)
}

func fallbackQuiz(material, topic string) domain.Quiz {
	return domain.Quiz{
		Title: fmt.Sprintf("Quiz about %s...", quizSubject(material, topic)),
		Questions: []domain.QuizQuestion{
			{
				Text:          "What is the main topic of this study material?",
				Options:       []string{head(material, 20) + "...", "Something else", "Not sure", "Unknown"},
				CorrectAnswer: 0,
				Explanation:   "This question is based on the study material provided.",
			},
		},
	}
}

// GenerateStudyMaterial devuelve el texto del modelo tal cual: el material de
// estudio es prosa formateada, no JSON.
func (s *StudyService) GenerateStudyMaterial(ctx context.Context, sessionID, topic string, format domain.StudyFormat, complexity string) (string, error) {
	return s.generate(ctx, sessionID, studyMaterialPrompt(topic, format, complexity), genOptions{
		temperature: 0.7,
		maxTokens:   1500,
	})
}

// GenerateLongAnswer responde una pregunta abierta en formato largo.
func (s *StudyService) GenerateLongAnswer(ctx context.Context, sessionID, question, complexity string) (string, error) {
	return s.generate(ctx, sessionID, longAnswerPrompt(question, complexity), genOptions{
		temperature: 0.7,
		maxTokens:   1200,
	})
}

// IngestAndSummarizeFile resume un archivo y extrae sus temas principales.
// La operación nunca propaga errores del proveedor: un fallo se reporta como
// resumen degradado para que la subida del archivo no se pierda.
func (s *StudyService) IngestAndSummarizeFile(ctx context.Context, sessionID string, file domain.FileRecord) domain.IngestResult {
	fallbackTopic := strings.TrimSuffix(file.Name, pathExt(file.Name))

	if file.Content == "" {
		return domain.IngestResult{
			Summary: fmt.Sprintf("File %s was uploaded but content is not available for analysis.", file.Name),
			Topics:  []string{fallbackTopic},
		}
	}

	reply, err := s.generate(ctx, sessionID, ingestPrompt(file.Name, file.Content), genOptions{
		temperature: 0.3,
		maxTokens:   400,
	})
	if err != nil {
		logrus.WithField("session", sessionID).Errorf("[STUDY] file ingestion failed for %s: %v", file.Name, err)
		return domain.IngestResult{
			Summary: fmt.Sprintf("Error analyzing %s: %v", file.Name, err),
			Topics:  []string{fallbackTopic},
		}
	}

	var result domain.IngestResult
	if perr := ParseModelJSON(reply, &result); perr != nil {
		logrus.WithField("session", sessionID).Errorf("[STUDY] ingest response was not valid JSON: %v", perr)
		return domain.IngestResult{
			Summary: "Failed to parse summary from AI response.",
			Topics:  []string{fallbackTopic},
		}
	}
	if result.Summary == "" {
		result.Summary = "Summary could not be generated."
	}
	if len(result.Topics) == 0 {
		result.Topics = []string{fallbackTopic}
	}
	return result
}

// IngestSessionFiles resume secuencialmente todos los archivos de la sesión.
// Devuelve nil cuando la sesión no tiene archivos.
func (s *StudyService) IngestSessionFiles(ctx context.Context, sessionID string) (map[string]domain.IngestResult, error) {
	sess, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.Files) == 0 {
		return nil, nil
	}

	results := make(map[string]domain.IngestResult, len(sess.Files))
	for _, file := range sess.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[file.ID] = s.IngestAndSummarizeFile(ctx, sessionID, file)
	}
	return results, nil
}

// SendChatMessage conversa con la sesión y separa el cuerpo de la respuesta
// de las preguntas sugeridas que siguen al marcador de profundización.
func (s *StudyService) SendChatMessage(ctx context.Context, sessionID, message, model string) (*domain.ChatReply, error) {
	reply, err := s.generate(ctx, sessionID, message+chatInstruction, genOptions{
		model:       model,
		temperature: 0.7,
		maxTokens:   1000,
	})
	if err != nil {
		return nil, err
	}
	return splitChatReply(reply), nil
}

func splitChatReply(reply string) *domain.ChatReply {
	parts := strings.SplitN(reply, deepDiveMarker, 2)
	out := &domain.ChatReply{MainText: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		for _, m := range suggestionRe.FindAllStringSubmatch(parts[1], -1) {
			if q := strings.TrimSpace(m[1]); q != "" {
				out.SuggestedQuestions = append(out.SuggestedQuestions, q)
			}
		}
	}
	return out
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}
