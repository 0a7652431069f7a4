package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainSession "github.com/AzielCF/az-study/domains/session"
	"github.com/AzielCF/az-study/pkg/ingestworker"
	"github.com/AzielCF/az-study/pkg/utils"
	"github.com/AzielCF/az-study/studyengine/application"
	engine "github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/extractor"
	"github.com/AzielCF/az-study/validations"
)

// DefaultFileContentTokens bounds GET file-content previews.
const DefaultFileContentTokens = 3000

type sessionService struct {
	store  engine.ContextStore
	engine *application.StudyService
	pool   *ingestworker.IngestWorkerPool
}

func NewSessionService(store engine.ContextStore, engineService *application.StudyService, pool *ingestworker.IngestWorkerPool) domainSession.ISessionUsecase {
	return &sessionService{store: store, engine: engineService, pool: pool}
}

// UploadFile extrae el texto del documento, lo registra en la sesión y
// encola el resumen en segundo plano. La extracción degradada no es error:
// el archivo queda registrado con el texto que se pudo rescatar.
func (s *sessionService) UploadFile(ctx context.Context, req domainSession.UploadFileRequest) (domainSession.UploadFileResponse, error) {
	if err := validations.ValidateUploadFile(ctx, req); err != nil {
		return domainSession.UploadFileResponse{}, err
	}

	result := extractor.Extract(ctx, req.Blob, req.FileName)

	file := engine.FileRecord{
		ID:       uuid.NewString(),
		Name:     req.FileName,
		MimeType: req.MimeType,
		Content:  result.Text,
	}
	if err := s.store.AddFile(ctx, req.SessionID, file); err != nil {
		return domainSession.UploadFileResponse{}, err
	}

	// Copia en disco para inspección y reprocesado manual.
	diskPath := filepath.Join(utils.GetSessionStoragePath(req.SessionID), file.ID+filepath.Ext(req.FileName))
	if err := os.WriteFile(diskPath, req.Blob, 0644); err != nil {
		logrus.Warnf("[SESSION] could not persist upload %s to disk: %v", file.ID, err)
	}

	queued := false
	if s.pool != nil {
		sessionID, fileCopy := req.SessionID, file
		queued = s.pool.TryDispatch(ingestworker.IngestJob{
			SessionID: sessionID,
			FileID:    file.ID,
			Handler: func(jobCtx context.Context) error {
				summary := s.engine.IngestAndSummarizeFile(jobCtx, sessionID, fileCopy)
				logrus.WithFields(logrus.Fields{
					"session": sessionID,
					"file":    fileCopy.Name,
					"topics":  summary.Topics,
				}).Info("[SESSION] file ingested")
				return nil
			},
		})
	}

	return domainSession.UploadFileResponse{
		FileID:         file.ID,
		PageCount:      result.PageCount,
		PagesExtracted: result.PagesExtracted,
		Degraded:       result.Degraded,
		IngestQueued:   queued,
	}, nil
}

func (s *sessionService) GetContext(ctx context.Context, sessionID string) (*engine.SessionContext, error) {
	return s.store.GetOrCreate(ctx, sessionID)
}

func (s *sessionService) FileContent(ctx context.Context, sessionID string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultFileContentTokens
	}
	return s.store.FileContent(ctx, sessionID, maxTokens)
}

func (s *sessionService) Chat(ctx context.Context, req domainSession.ChatRequest) (*engine.ChatReply, error) {
	if err := validations.ValidateChat(ctx, req); err != nil {
		return nil, err
	}
	return s.engine.SendChatMessage(ctx, req.SessionID, req.Message, req.Model)
}

func (s *sessionService) IngestFiles(ctx context.Context, sessionID string) (map[string]engine.IngestResult, error) {
	return s.engine.IngestSessionFiles(ctx, sessionID)
}

func (s *sessionService) ClearSession(ctx context.Context, sessionID string) error {
	return s.store.Evict(ctx, sessionID)
}
