package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-study/pkg/ingestworker"
)

var ingestPool *ingestworker.IngestWorkerPool

// SetIngestPool wires the running ingest pool so the stats endpoint can read it.
func SetIngestPool(pool *ingestworker.IngestWorkerPool) {
	ingestPool = pool
}

// GetWorkerPoolStats returns real-time ingest worker pool statistics
func GetWorkerPoolStats(c *fiber.Ctx) error {
	if ingestPool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "ingest worker pool not initialized",
		})
	}
	return c.JSON(ingestPool.GetStats())
}
