package projector

import (
	"log/slog"

	"github.com/simple-banking-ledger/internal/config"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// CreateProjectionService wraps the history projection in a worker pool. When the pool cannot
// be built the plain service is returned with a nil pool.
func CreateProjectionService(
	history ledger.HistoryRepository,
	logger *slog.Logger,
	cfg *config.Config,
) (ProjectionService, *WorkerPoolProjectionService) {
	baseService := NewHistoryProjectionService(history, logger.With("component", "history_projection"))

	workerPoolService, err := NewWorkerPoolProjectionService(
		baseService,
		WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService, nil
	}

	logger.Info("Created worker pool projection service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService, workerPoolService
}
