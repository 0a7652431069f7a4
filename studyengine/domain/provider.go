package domain

import "context"

// CompletionProvider es la interfaz que debe implementar cualquier proveedor
// de completions (OpenAI, Gemini, etc.)
type CompletionProvider interface {
	// Complete envía una petición ya acotada y devuelve el texto de la respuesta.
	// Los fallos upstream se devuelven clasificados vía ClassifyAPIError.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
