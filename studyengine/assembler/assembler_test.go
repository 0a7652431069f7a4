package assembler

import (
	"context"
	"strings"
	"testing"

	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/repository"
	"github.com/AzielCF/az-study/studyengine/textkit"
)

func newStore(t *testing.T) *repository.MemoryContextStore {
	t.Helper()
	store := repository.NewMemoryContextStore()
	t.Cleanup(store.Close)
	return store
}

func totalTokens(messages []domain.ChatTurn) int {
	total := 0
	for _, m := range messages {
		total += textkit.EstimateTokens(m.Text)
	}
	return total
}

func TestBuildEmptySession(t *testing.T) {
	a := New(newStore(t))

	messages, err := a.Build(context.Background(), "sess-1", "gpt-4", "explain osmosis")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected system + prompt, got %d messages", len(messages))
	}
	if messages[0].Role != domain.RoleSystem {
		t.Fatalf("first message must be system, got %s", messages[0].Role)
	}
	if strings.Contains(messages[0].Text, "uploaded files") {
		t.Fatalf("no-file sessions should get the generic system prompt: %q", messages[0].Text)
	}
	if messages[1].Role != domain.RoleUser || messages[1].Text != "explain osmosis" {
		t.Fatalf("unexpected final message: %+v", messages[1])
	}
}

func TestBuildOrderingWithFilesAndHistory(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	store.AddFile(ctx, "sess-2", domain.FileRecord{ID: "f1", Name: "bio.pdf", Content: "cells divide by mitosis"})
	store.AppendTurn(ctx, "sess-2", domain.RoleUser, "what is mitosis")
	store.AppendTurn(ctx, "sess-2", domain.RoleAssistant, "cell division")

	messages, err := New(store).Build(ctx, "sess-2", "gpt-4", "and meiosis?")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if messages[0].Role != domain.RoleSystem || !strings.Contains(messages[0].Text, "--- Content from bio.pdf ---") {
		t.Fatalf("system message should embed file content: %+v", messages[0])
	}
	last := messages[len(messages)-1]
	if last.Role != domain.RoleUser || last.Text != "and meiosis?" {
		t.Fatalf("prompt must come last: %+v", last)
	}
	// El historial queda entre el system y el prompt activo.
	var sawHistory bool
	for _, m := range messages[1 : len(messages)-1] {
		if m.Text == "what is mitosis" {
			sawHistory = true
		}
	}
	if !sawHistory {
		t.Fatal("history turns missing from the middle of the request")
	}
}

func TestBuildUsesNarrowHistoryWindow(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	for i := 0; i < domain.HistoryLimit; i++ {
		store.AppendTurn(ctx, "sess-3", domain.RoleUser, strings.Repeat("x", 10))
	}

	messages, err := New(store).Build(ctx, "sess-3", "gpt-4", "q")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// system + window + prompt
	if want := 1 + domain.RequestHistoryWindow + 1; len(messages) != want {
		t.Fatalf("expected %d messages, got %d", want, len(messages))
	}
}

func TestBuildNeverExceedsInputBudget(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	// Archivo y prompt deliberadamente enormes para un modelo pequeño.
	store.AddFile(ctx, "sess-4", domain.FileRecord{
		ID: "f1", Name: "big.pdf",
		Content: strings.Repeat("lorem ipsum dolor sit amet. ", 2000),
	})
	hugePrompt := strings.Repeat("question about the text. ", 3000)

	messages, err := New(store).Build(ctx, "sess-4", "gpt-3.5-turbo", hugePrompt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	limit := domain.LimitsFor("gpt-3.5-turbo").InputTokenLimit
	if got := totalTokens(messages); got > limit {
		t.Fatalf("assembled request uses %d tokens, over the %d limit", got, limit)
	}
	last := messages[len(messages)-1]
	if !strings.Contains(last.Text, "[Note: Prompt was truncated due to length]") {
		t.Fatal("oversized prompt should carry the truncation note")
	}
}

func TestBuildDropsOversizedHistoryTurns(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	// Los turnos juntos desbordan el presupuesto del modelo chico: la
	// ventana por número de turnos no basta para acotar la petición.
	roles := []domain.Role{domain.RoleUser, domain.RoleAssistant}
	for i := 0; i < domain.RequestHistoryWindow; i++ {
		store.AppendTurn(ctx, "sess-7", roles[i%2], strings.Repeat("dato memorizado ", 175))
	}

	messages, err := New(store).Build(ctx, "sess-7", "gpt-3.5-turbo", "short question")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	limit := domain.LimitsFor("gpt-3.5-turbo").InputTokenLimit
	if got := totalTokens(messages); got > limit {
		t.Fatalf("assembled request uses %d tokens, over the %d limit", got, limit)
	}
	last := messages[len(messages)-1]
	if last.Role != domain.RoleUser || last.Text != "short question" {
		t.Fatalf("history pressure must not eat the prompt: %+v", last)
	}
	// Se conserva lo más reciente que cabe, no la ventana completa.
	if kept := len(messages) - 2; kept >= domain.RequestHistoryWindow {
		t.Fatalf("expected oldest turns dropped, kept %d of %d", kept, domain.RequestHistoryWindow)
	}
}

func TestBuildKeepsSmallPromptIntact(t *testing.T) {
	messages, err := New(newStore(t)).Build(context.Background(), "sess-5", "gpt-4", "short question")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	last := messages[len(messages)-1]
	if strings.Contains(last.Text, "[Note:") {
		t.Fatalf("small prompt must not be annotated: %q", last.Text)
	}
}

func TestBuildUnknownModelFallsBackToDefaultLimits(t *testing.T) {
	store := newStore(t)
	hugePrompt := strings.Repeat("palabra ", 10000)

	messages, err := New(store).Build(context.Background(), "sess-6", "made-up-model", hugePrompt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	limit := domain.LimitsFor(domain.DefaultModel).InputTokenLimit
	if got := totalTokens(messages); got > limit {
		t.Fatalf("unknown model should inherit default budget: %d > %d", got, limit)
	}
}
