// Package extractor convierte blobs PDF en texto utilizable para el motor.
// Nunca devuelve error al caller: toda degradación se expresa como texto
// descriptivo más un reporte por página.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-study/studyengine/textkit"
)

// lowConfidenceThreshold: por debajo de este número de caracteres el
// resultado se marca como de baja confianza.
const lowConfidenceThreshold = 100

// PageResult registra el desenlace de la extracción de una página.
type PageResult struct {
	Page  int    `json:"page"`
	Chars int    `json:"chars"`
	Err   string `json:"error,omitempty"`
}

// Result is the partial-success report of one extraction. Text is always
// usable: genuine extracted text or a descriptive fallback message.
type Result struct {
	Text           string       `json:"text"`
	PageCount      int          `json:"page_count"`
	PagesExtracted int          `json:"pages_extracted"`
	PerPage        []PageResult `json:"per_page,omitempty"`
	Degraded       bool         `json:"degraded"`
}

// Extract recorre las páginas del documento en orden, tolerando fallos
// parciales. El contexto se comprueba entre páginas; en cancelación se
// conserva lo ya procesado.
func Extract(ctx context.Context, blob []byte, name string) Result {
	size := humanize.Bytes(uint64(len(blob)))

	reader, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"file": name,
			"size": size,
		}).WithError(err).Warn("[EXTRACTOR] document could not be opened")
		return Result{
			Text: fmt.Sprintf(
				"The document %q (%s) could not be parsed. It may be corrupted, password-protected, or not a PDF.",
				name, size),
			Degraded: true,
		}
	}

	pageCount := reader.NumPage()
	res := Result{PageCount: pageCount}

	var full strings.Builder
	for i := 1; i <= pageCount; i++ {
		select {
		case <-ctx.Done():
			logrus.WithFields(logrus.Fields{
				"file": name,
				"page": i,
			}).Info("[EXTRACTOR] cancelled, keeping pages already processed")
			return finish(res, full.String(), name, size)
		default:
		}

		text, pageErr := extractPage(reader, i)
		if pageErr != nil {
			// Un fallo de página se registra y se salta; nunca aborta el documento.
			logrus.WithFields(logrus.Fields{
				"file": name,
				"page": i,
			}).WithError(pageErr).Warn("[EXTRACTOR] page skipped")
			res.PerPage = append(res.PerPage, PageResult{Page: i, Err: pageErr.Error()})
			continue
		}

		res.PerPage = append(res.PerPage, PageResult{Page: i, Chars: len(text)})
		res.PagesExtracted++
		if text != "" {
			full.WriteString(text)
			full.WriteString("\n\n")
		}
	}

	return finish(res, full.String(), name, size)
}

// extractPage aísla el parsing de una página. La librería puede entrar en
// pánico con PDFs malformados, así que se recupera aquí.
func extractPage(reader *pdf.Reader, page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parser panic: %v", r)
		}
	}()

	p := reader.Page(page)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d is empty or unreadable", page)
	}

	var fragments []string
	for _, item := range p.Content().Text {
		frag := strings.TrimSpace(item.S)
		if frag == "" {
			continue
		}
		fragments = append(fragments, frag)
	}
	return strings.Join(fragments, " "), nil
}

// finish aplica la política de calidad sobre el texto acumulado.
func finish(res Result, raw, name, size string) Result {
	text := textkit.NormalizeWhitespace(raw)

	switch {
	case len(text) == 0:
		res.Degraded = true
		res.Text = fmt.Sprintf(
			"No readable text was found in %q (%s). The document looks image-based or scanned; only typed text can be extracted.",
			name, size)
		return res
	case len(text) < lowConfidenceThreshold:
		res.Degraded = true
		res.Text = fmt.Sprintf(
			"Very little text could be extracted from %q (%s). Low confidence in the result. Extracted fragment: %s",
			name, size, text)
		return res
	}

	if res.PageCount > 0 && res.PagesExtracted*2 < res.PageCount {
		logrus.WithFields(logrus.Fields{
			"file":            name,
			"pages":           res.PageCount,
			"pages_extracted": res.PagesExtracted,
		}).Warn("[EXTRACTOR] extraction succeeded on fewer than half of the pages")
		res.Degraded = true
	}

	res.Text = text
	return res
}
