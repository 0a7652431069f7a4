package session

import (
	"context"

	engine "github.com/AzielCF/az-study/studyengine/domain"
)

// UploadFileRequest carries one uploaded document into the session.
type UploadFileRequest struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	Blob      []byte `json:"-"`
}

// UploadFileResponse reports what the extractor got out of the document and
// whether the background summarization job was accepted.
type UploadFileResponse struct {
	FileID         string `json:"file_id"`
	PageCount      int    `json:"page_count"`
	PagesExtracted int    `json:"pages_extracted"`
	Degraded       bool   `json:"degraded"`
	IngestQueued   bool   `json:"ingest_queued"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

type ISessionUsecase interface {
	UploadFile(ctx context.Context, req UploadFileRequest) (UploadFileResponse, error)
	GetContext(ctx context.Context, sessionID string) (*engine.SessionContext, error)
	FileContent(ctx context.Context, sessionID string, maxTokens int) (string, error)
	Chat(ctx context.Context, req ChatRequest) (*engine.ChatReply, error)
	IngestFiles(ctx context.Context, sessionID string) (map[string]engine.IngestResult, error)
	ClearSession(ctx context.Context, sessionID string) error
}
