// Package textkit agrupa las utilidades de texto del motor: chunking por
// niveles, normalización de espacios y estimación barata de tokens.
package textkit

// CharsPerToken is the heuristic ratio used across the engine.
// Roughly 1 token ≈ 4 characters for Latin text.
const CharsPerToken = 4

// EstimateTokens returns a cheap upper-bound-ish approximation of the token
// count of text (ceil of len/4). It is meant for admission decisions only,
// never for billing-grade accounting.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// TokensToChars convierte un presupuesto de tokens a su cota en caracteres.
func TokensToChars(tokens int) int {
	return tokens * CharsPerToken
}
