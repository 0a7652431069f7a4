// Package assembler construye la lista de mensajes acotada que se envía al
// proveedor de completions: contexto de archivos, historial recortado y el
// prompt activo, siempre dentro del presupuesto de entrada del modelo.
package assembler

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/textkit"
)

const (
	// systemPromptWithFiles precede al contenido de archivos en el mensaje system.
	systemPromptWithFiles = "You are a helpful study assistant. You have access to the following uploaded files and their content:"
	systemPromptNoFiles   = "You are a helpful study assistant. Provide clear, educational responses to help users learn."
	promptTruncatedNote   = "\n\n[Note: Prompt was truncated due to length]"
)

// minPromptReserveTokens siempre queda libre para el prompt activo; el
// historial se descarta antes que invadir esta reserva.
const minPromptReserveTokens = 128

// Assembler builds bounded completion requests from session state.
type Assembler struct {
	store domain.ContextStore
}

func New(store domain.ContextStore) *Assembler {
	return &Assembler{store: store}
}

// Build returns the ordered message list (system → history → prompt) for a
// completion against model. The result never exceeds the model's declared
// input-token limit: the bound holds by construction, not by validation.
//
// Prioridad bajo presión: el historial se recorta antes que el contexto de
// archivos, y los archivos antes que el prompt activo; como último recurso
// se trunca el propio prompt.
func (a *Assembler) Build(ctx context.Context, sessionID, model, prompt string) ([]domain.ChatTurn, error) {
	limits := domain.LimitsFor(model)

	var messages []domain.ChatTurn

	// Mitad del presupuesto reservada para el contexto de archivos.
	fileContent, err := a.store.FileContent(ctx, sessionID, limits.InputTokenLimit/2)
	if err != nil {
		return nil, err
	}
	if fileContent != "" {
		messages = append(messages, domain.ChatTurn{
			Role: domain.RoleSystem,
			Text: systemPromptWithFiles + fileContent + "\n\nUse this content to provide accurate, relevant responses based on the actual material provided.",
		})
	} else {
		messages = append(messages, domain.ChatTurn{
			Role: domain.RoleSystem,
			Text: systemPromptNoFiles,
		})
	}

	// Ventana de historial más estrecha que el límite de almacenamiento.
	sess, err := a.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history := sess.History
	if len(history) > domain.RequestHistoryWindow {
		history = history[len(history)-domain.RequestHistoryWindow:]
	}

	// La ventana acota por número de turnos, no por tamaño: un turno puede
	// ocupar él solo el presupuesto entero. Se descartan los más antiguos
	// hasta que el historial quepa junto a la reserva del prompt.
	systemUsed := 0
	for _, m := range messages {
		systemUsed += textkit.EstimateTokens(m.Text)
	}
	historyBudget := limits.InputTokenLimit - systemUsed - minPromptReserveTokens
	historyUsed := 0
	for _, turn := range history {
		historyUsed += textkit.EstimateTokens(turn.Text)
	}
	dropped := 0
	for len(history) > 0 && historyUsed > historyBudget {
		historyUsed -= textkit.EstimateTokens(history[0].Text)
		history = history[1:]
		dropped++
	}
	if dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"session": sessionID,
			"model":   model,
			"dropped": dropped,
		}).Debug("[ASSEMBLER] oldest history turns dropped to fit input budget")
	}
	messages = append(messages, history...)

	used := systemUsed + historyUsed
	remaining := limits.InputTokenLimit - used
	if remaining < 0 {
		remaining = 0
	}

	finalPrompt := prompt
	if textkit.EstimateTokens(prompt) > remaining {
		// La nota de truncado también cuenta contra el presupuesto.
		budgetChars := textkit.TokensToChars(remaining) - len(promptTruncatedNote)
		chunks := textkit.Chunk(prompt, budgetChars)
		if len(chunks) > 0 {
			finalPrompt = chunks[0] + promptTruncatedNote
		} else {
			finalPrompt = promptTruncatedNote
		}
		logrus.WithFields(logrus.Fields{
			"session":   sessionID,
			"model":     model,
			"remaining": remaining,
		}).Debug("[ASSEMBLER] active prompt truncated to fit input budget")
	}
	messages = append(messages, domain.ChatTurn{Role: domain.RoleUser, Text: finalPrompt})

	return messages, nil
}
