package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	coreconfig "github.com/AzielCF/az-study/core/config"
	coreDB "github.com/AzielCF/az-study/core/database"
	"github.com/AzielCF/az-study/domains/health"
	"github.com/AzielCF/az-study/infrastructure/valkey"
	"github.com/AzielCF/az-study/pkg/ingestworker"
)

type healthService struct {
	valkeyClient *valkey.Client
	pool         *ingestworker.IngestWorkerPool
}

// NewHealthService reports liveness of the service's dependencies.
// valkeyClient and pool may be nil when those subsystems are disabled.
func NewHealthService(valkeyClient *valkey.Client, pool *ingestworker.IngestWorkerPool) health.IHealthUsecase {
	return &healthService{valkeyClient: valkeyClient, pool: pool}
}

func (s *healthService) GetStatus(ctx context.Context) ([]health.ComponentStatus, error) {
	components := []health.Component{
		health.ComponentDatabase,
		health.ComponentProvider,
		health.ComponentWorkers,
	}
	if coreconfig.Global != nil && coreconfig.Global.Database.ValkeyEnabled {
		components = append(components, health.ComponentValkey)
	}

	statuses := make([]health.ComponentStatus, 0, len(components))
	for _, c := range components {
		status, err := s.CheckComponent(ctx, c)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *healthService) CheckComponent(ctx context.Context, component health.Component) (health.ComponentStatus, error) {
	status := health.ComponentStatus{
		Component:   component,
		Status:      health.StatusUnknown,
		LastChecked: time.Now().UTC(),
	}

	switch component {
	case health.ComponentDatabase:
		db, err := coreDB.GetLegacyDB()
		if err != nil {
			status.Status = health.StatusError
			status.LastMessage = err.Error()
			break
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			status.Status = health.StatusError
			status.LastMessage = err.Error()
		} else {
			status.Status = health.StatusOk
		}

	case health.ComponentValkey:
		if s.valkeyClient == nil {
			status.Status = health.StatusError
			status.LastMessage = "valkey enabled but client not connected"
			break
		}
		if err := s.valkeyClient.Ping(ctx); err != nil {
			status.Status = health.StatusError
			status.LastMessage = err.Error()
		} else {
			status.Status = health.StatusOk
		}

	case health.ComponentProvider:
		if coreconfig.Global == nil {
			status.Status = health.StatusError
			status.LastMessage = "configuration not loaded"
			break
		}
		provider := coreconfig.Global.AI.Provider
		key := coreconfig.Global.APIKeys.OpenAI
		if provider == "gemini" {
			key = coreconfig.Global.APIKeys.Gemini
		}
		if key == "" {
			status.Status = health.StatusError
			status.LastMessage = fmt.Sprintf("no API key configured for provider %q", provider)
		} else {
			status.Status = health.StatusOk
			status.LastMessage = provider
		}

	case health.ComponentWorkers:
		if s.pool == nil {
			status.Status = health.StatusError
			status.LastMessage = "ingest worker pool not running"
			break
		}
		stats := s.pool.GetStats()
		status.Status = health.StatusOk
		status.LastMessage = fmt.Sprintf("%d/%d workers busy, %d processed, %d dropped",
			stats.ActiveWorkers, stats.NumWorkers, stats.TotalProcessed, stats.TotalDropped)

	default:
		logrus.Warnf("[HEALTH] unknown component requested: %s", component)
		status.LastMessage = "unknown component"
	}

	return status, nil
}
