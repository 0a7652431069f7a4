package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/textkit"
)

func TestMemoryContextStore_GetOrCreate(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate() unexpected error: %v", err)
	}
	if sess.SessionID != "s1" {
		t.Fatalf("GetOrCreate() SessionID = %q, want %q", sess.SessionID, "s1")
	}
	if len(sess.Files) != 0 || len(sess.History) != 0 {
		t.Fatalf("GetOrCreate() expected empty context, got %d files / %d turns", len(sess.Files), len(sess.History))
	}
	if sess.LastUpdated.IsZero() {
		t.Fatalf("GetOrCreate() LastUpdated not set")
	}
}

func TestMemoryContextStore_AddFileUpsertsByID(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.AddFile(ctx, "s1", domain.FileRecord{ID: "f1", Name: "a.pdf", MimeType: "application/pdf", Content: "v1"}); err != nil {
		t.Fatalf("AddFile() unexpected error: %v", err)
	}
	if err := store.AddFile(ctx, "s1", domain.FileRecord{ID: "f1", Name: "a.pdf", MimeType: "application/pdf", Content: "v2"}); err != nil {
		t.Fatalf("AddFile() unexpected error: %v", err)
	}

	sess, _ := store.GetOrCreate(ctx, "s1")
	if len(sess.Files) != 1 {
		t.Fatalf("AddFile() expected upsert, got %d files", len(sess.Files))
	}
	if sess.Files[0].Content != "v2" {
		t.Fatalf("AddFile() upsert kept stale content %q", sess.Files[0].Content)
	}
	// Cada subida deja un turno system en el historial.
	if len(sess.History) != 2 {
		t.Fatalf("AddFile() expected 2 system turns, got %d", len(sess.History))
	}
	if sess.History[0].Role != domain.RoleSystem || !strings.Contains(sess.History[0].Text, "a.pdf") {
		t.Fatalf("AddFile() system turn malformed: %+v", sess.History[0])
	}
}

// Propiedad: tras N appends el historial retiene como mucho los 10 más
// recientes en orden original. Con 11 appends, history[0] es el 2º turno.
func TestMemoryContextStore_HistoryBound(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		if err := store.AppendTurn(ctx, "s1", domain.RoleUser, fmt.Sprintf("turn-%d", i)); err != nil {
			t.Fatalf("AppendTurn() unexpected error: %v", err)
		}
	}

	sess, _ := store.GetOrCreate(ctx, "s1")
	if len(sess.History) != domain.HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(sess.History), domain.HistoryLimit)
	}
	if sess.History[0].Text != "turn-2" {
		t.Fatalf("history[0] = %q, want turn-2 (oldest evicted first)", sess.History[0].Text)
	}
	if sess.History[len(sess.History)-1].Text != "turn-11" {
		t.Fatalf("history tail = %q, want turn-11", sess.History[len(sess.History)-1].Text)
	}
}

func TestMemoryContextStore_FileContentWithinBudget(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	content := strings.Repeat("material de estudio. ", 10)
	_ = store.AddFile(ctx, "s1", domain.FileRecord{ID: "f1", Name: "a.pdf", MimeType: "application/pdf", Content: content})

	got, err := store.FileContent(ctx, "s1", 100000)
	if err != nil {
		t.Fatalf("FileContent() unexpected error: %v", err)
	}
	if strings.Contains(got, "[Note:") {
		t.Fatalf("FileContent() should not annotate when within budget: %q", got)
	}
	if !strings.Contains(got, "--- Content from a.pdf ---") || !strings.Contains(got, content) {
		t.Fatalf("FileContent() missing delimited content: %q", got)
	}
}

// Propiedad: un archivo de 1.000 caracteres con presupuesto de 10 tokens
// (~250 tokens estimados) devuelve chunk[0] más la anotación con 1 archivo.
func TestMemoryContextStore_FileContentTruncated(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	content := strings.Repeat("palabras de estudio ", 50) // 1000 chars
	_ = store.AddFile(ctx, "s1", domain.FileRecord{ID: "f1", Name: "big.pdf", MimeType: "application/pdf", Content: content})

	got, err := store.FileContent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("FileContent() unexpected error: %v", err)
	}
	if !strings.Contains(got, "[Note: File content is large") {
		t.Fatalf("FileContent() missing truncation annotation: %q", got)
	}
	if !strings.Contains(got, "Total 1 files available") {
		t.Fatalf("FileContent() annotation should mention 1 file: %q", got)
	}

	noteIdx := strings.Index(got, "\n\n[Note:")
	body := got[:noteIdx]
	if len(body) > textkit.TokensToChars(10) {
		t.Fatalf("FileContent() body length %d exceeds derived char bound %d", len(body), textkit.TokensToChars(10))
	}
}

func TestMemoryContextStore_FileContentEmptySession(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()

	got, err := store.FileContent(context.Background(), "nope", 100)
	if err != nil {
		t.Fatalf("FileContent() unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("FileContent() on empty session = %q, want empty", got)
	}
}

func TestMemoryContextStore_RotateStrategy(t *testing.T) {
	store := NewMemoryContextStore(WithTruncateStrategy(domain.TruncateRotate))
	defer store.Close()
	ctx := context.Background()

	content := strings.Repeat("seccion uno. ", 200) // ~2600 chars
	_ = store.AddFile(ctx, "s1", domain.FileRecord{ID: "f1", Name: "doc.pdf", MimeType: "application/pdf", Content: content})

	first, _ := store.FileContent(ctx, "s1", 100)
	second, _ := store.FileContent(ctx, "s1", 100)
	if first == second {
		t.Fatalf("rotate strategy should advance the returned section")
	}
}

func TestMemoryContextStore_Evict(t *testing.T) {
	store := NewMemoryContextStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.AppendTurn(ctx, "s1", domain.RoleUser, "hola")
	if err := store.Evict(ctx, "s1"); err != nil {
		t.Fatalf("Evict() unexpected error: %v", err)
	}
	sess, _ := store.GetOrCreate(ctx, "s1")
	if len(sess.History) != 0 {
		t.Fatalf("Evict() left history behind: %d turns", len(sess.History))
	}
}
