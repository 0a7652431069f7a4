package textkit

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Separadores por nivel: párrafos, frases, palabras. Si una palabra suelta
// sigue sin caber, se trunca a maxLen exacto (pérdida explícita, no corrupción
// silenciosa).
var chunkSeparators = []string{"\n\n", ". ", " "}

// Chunk splits text into ordered pieces of at most maxLen bytes, preferring
// natural language boundaries: whole text, then paragraphs, then sentences,
// then words. It is pure and restartable. Every returned chunk satisfies
// len(chunk) <= maxLen.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}
	return chunkAtLevel(text, maxLen, 0)
}

func chunkAtLevel(text string, maxLen, level int) []string {
	if level >= len(chunkSeparators) {
		// Token indivisible más largo que el presupuesto.
		logrus.WithFields(logrus.Fields{
			"length": len(text),
			"max":    maxLen,
		}).Warn("[CHUNKER] unsplittable token hard-truncated")
		return []string{text[:maxLen]}
	}

	sep := chunkSeparators[level]
	parts := strings.Split(text, sep)

	var chunks []string
	var current string

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, part := range parts {
		// Una pieza que no cabe sola baja al siguiente nivel.
		if len(part) > maxLen {
			flush()
			chunks = append(chunks, chunkAtLevel(part, maxLen, level+1)...)
			continue
		}

		candidate := len(current) + len(part)
		if current != "" {
			candidate += len(sep)
		}
		if candidate <= maxLen {
			if current != "" {
				current += sep
			}
			current += part
			continue
		}
		flush()
		current = part
	}
	flush()

	return chunks
}
