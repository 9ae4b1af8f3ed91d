package worker

import (
	"context"
	"fmt"
	"time"

	"fieldserve-backend/models"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

// InvoiceSweeper flips sent invoices past their due date to overdue on
// every worker tick.
type InvoiceSweeper struct {
	Invoices services.InvoiceServiceInterface
	Logger   logger.Logger
}

// NewInvoiceSweeper creates a sweeper over the given invoice service
func NewInvoiceSweeper(invoices services.InvoiceServiceInterface, log logger.Logger) *InvoiceSweeper {
	return &InvoiceSweeper{
		Invoices: invoices,
		Logger:   log,
	}
}

// Run executes one overdue sweep and records the outcome
func (s *InvoiceSweeper) Run(ctx context.Context, statusManager *StatusManager) error {
	s.Logger.Debug("Starting invoice overdue sweep")

	if err := statusManager.UpdateProgress(models.StatusSweeping, "Sweeping sent invoices for overdue", nil); err != nil {
		s.Logger.Errorf("Failed to update sweep status: %v", err)
	}

	checked, flipped, err := s.Invoices.SweepOverdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("overdue sweep failed: %w", err)
	}

	if err := statusManager.RecordSweep(checked, flipped); err != nil {
		s.Logger.Errorf("Failed to record sweep outcome: %v", err)
	}

	if flipped > 0 {
		s.Logger.Infof("Overdue sweep checked %d invoices, marked %d overdue", checked, flipped)
	} else {
		s.Logger.Debugf("Overdue sweep checked %d invoices, none overdue", checked)
	}

	return nil
}
