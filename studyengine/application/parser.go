package application

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Los modelos suelen envolver el JSON en un bloque de código markdown aunque
// se les pida JSON puro. El parser primero quita ese cerco y luego intenta un
// decode estricto; nunca rasca el texto buscando fragmentos con pinta de JSON.
var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?\\s*```$")

// ParseStage identifica en qué fase falló el parseo de una respuesta.
type ParseStage string

const (
	StageDecode   ParseStage = "decode"
	StageValidate ParseStage = "validate"
)

// ParseError carries the raw model output alongside the decode failure so
// callers can log it and fall back to a degraded payload.
type ParseError struct {
	Stage ParseStage
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response (%s): %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFence removes a single surrounding markdown code fence, with or
// without a json language tag. Text without a fence passes through trimmed.
func StripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ParseModelJSON strips an optional code fence and decodes the remainder
// into dst. A response that is not valid JSON for dst returns a *ParseError.
func ParseModelJSON(raw string, dst any) error {
	body := StripFence(raw)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return &ParseError{Stage: StageDecode, Raw: raw, Err: err}
	}
	return nil
}
