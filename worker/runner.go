package worker

import (
	"context"
	"fmt"

	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// Service wraps the background worker for easy integration
type Service struct {
	worker *Worker
	logger logger.Logger
}

// NewService creates a new worker service
func NewService(ctx context.Context, cfg *models.Config, log logger.Logger) (*Service, error) {
	w, err := NewWorker(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create background worker: %w", err)
	}

	return &Service{
		worker: w,
		logger: log,
	}, nil
}

// StartInBackground starts the worker in a separate goroutine
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting background worker service")

	go func() {
		if err := s.worker.Start(); err != nil {
			s.logger.Errorf("Background worker failed to start: %v", err)
		}
	}()

	return nil
}

// Stop stops the worker service
func (s *Service) Stop() error {
	s.logger.Info("Stopping background worker service")
	return s.worker.Stop()
}

// GetStatus returns the result of the last worker run
func (s *Service) GetStatus() (*models.ExecutionResult, error) {
	return s.worker.GetStatus()
}

// GetHealthStatus returns a health snapshot for monitoring
func (s *Service) GetHealthStatus() map[string]interface{} {
	status, err := s.GetStatus()
	if err != nil {
		return map[string]interface{}{
			"status":         "unknown",
			"message":        fmt.Sprintf("Failed to get status: %v", err),
			"healthy":        false,
			"worker_running": s.worker.IsRunning(),
		}
	}

	return map[string]interface{}{
		"status":           string(status.Status),
		"healthy":          status.Success,
		"worker_running":   s.worker.IsRunning(),
		"tables_created":   status.TablesCreated,
		"invoices_swept":   status.InvoicesSwept,
		"overdue_invoices": status.OverdueInvoices,
		"retry_count":      status.RetryCount,
		"environment":      status.Environment,
		"start_time":       status.StartTime,
		"error_message":    status.ErrorMessage,
	}
}
