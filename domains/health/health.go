package health

import (
	"context"
	"time"
)

type Component string

const (
	ComponentDatabase Component = "database"
	ComponentValkey   Component = "valkey"
	ComponentProvider Component = "ai_provider"
	ComponentWorkers  Component = "ingest_workers"
)

type Status string

const (
	StatusOk      Status = "OK"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN"
)

type ComponentStatus struct {
	Component   Component `json:"component"`
	Status      Status    `json:"status"`
	LastMessage string    `json:"last_message,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

type IHealthUsecase interface {
	GetStatus(ctx context.Context) ([]ComponentStatus, error)
	CheckComponent(ctx context.Context, component Component) (ComponentStatus, error)
}
