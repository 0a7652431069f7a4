package extractor

import (
	"context"
	"strings"
	"testing"
)

func TestExtract_UnparseableBlobReturnsFallbackText(t *testing.T) {
	res := Extract(context.Background(), []byte("not a pdf at all"), "notes.pdf")
	if !res.Degraded {
		t.Fatalf("Extract() expected degraded result for garbage input")
	}
	if res.Text == "" {
		t.Fatalf("Extract() must always return usable text")
	}
	if !strings.Contains(res.Text, "notes.pdf") {
		t.Fatalf("fallback message should embed the file name, got %q", res.Text)
	}
}

func TestFinish_NoTextLooksScanned(t *testing.T) {
	res := finish(Result{PageCount: 3}, "", "scan.pdf", "2.1 MB")
	if !res.Degraded {
		t.Fatalf("finish() expected degraded result for empty text")
	}
	if !strings.Contains(res.Text, "image-based") && !strings.Contains(res.Text, "scanned") {
		t.Fatalf("finish() should diagnose image-based/scanned documents, got %q", res.Text)
	}
	if !strings.Contains(res.Text, "2.1 MB") {
		t.Fatalf("finish() should embed the file size, got %q", res.Text)
	}
}

func TestFinish_LowTextIncludesFragmentVerbatim(t *testing.T) {
	fragment := "Titulo del documento"
	res := finish(Result{PageCount: 1, PagesExtracted: 1}, fragment, "short.pdf", "4 kB")
	if !res.Degraded {
		t.Fatalf("finish() expected degraded result below the confidence threshold")
	}
	if !strings.Contains(res.Text, fragment) {
		t.Fatalf("finish() should include the extracted fragment verbatim, got %q", res.Text)
	}
	if !strings.Contains(strings.ToLower(res.Text), "low confidence") {
		t.Fatalf("finish() should state the low-confidence diagnosis, got %q", res.Text)
	}
}

func TestFinish_PartialPagesStillReturnText(t *testing.T) {
	text := strings.Repeat("Contenido real de la pagina con suficiente longitud. ", 10)
	res := finish(Result{PageCount: 10, PagesExtracted: 3}, text, "partial.pdf", "1.0 MB")
	if res.Text == "" || strings.Contains(res.Text, "could not") {
		t.Fatalf("finish() must return the partial text, got %q", res.Text)
	}
	if !res.Degraded {
		t.Fatalf("finish() should flag extraction on fewer than half of the pages")
	}
}

func TestFinish_HealthyExtraction(t *testing.T) {
	text := strings.Repeat("Parrafo con material de estudio bien extraido. ", 20)
	res := finish(Result{PageCount: 4, PagesExtracted: 4}, text, "ok.pdf", "500 kB")
	if res.Degraded {
		t.Fatalf("finish() should not degrade a healthy extraction")
	}
	if res.Text == "" {
		t.Fatalf("finish() dropped the extracted text")
	}
}
