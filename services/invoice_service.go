package services

import (
	"context"
	"time"

	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/utils"
	"fieldserve-backend/utils/logger"
)

const defaultPaymentTermsDays = 30

// InvoiceService turns an approved quotation plus the order's SLA record into
// an invoice. Of the three SLA checkpoints only a resolution breach bills a
// penalty; first-response and on-site breaches are reported, never billed.
type InvoiceService struct {
	invoiceRepo   repository.InvoiceRepositoryInterface
	quotationRepo repository.QuotationRepositoryInterface
	orderRepo     repository.WorkOrderRepositoryInterface
	contractRepo  repository.ContractRepositoryInterface
	workOrders    *WorkOrderService
	sla           *SLAService
	logger        logger.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepositoryInterface,
	quotationRepo repository.QuotationRepositoryInterface,
	orderRepo repository.WorkOrderRepositoryInterface,
	contractRepo repository.ContractRepositoryInterface,
	workOrders *WorkOrderService,
	sla *SLAService,
	log logger.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		contractRepo:  contractRepo,
		workOrders:    workOrders,
		sla:           sla,
		logger:        log,
	}
}

// ComputePenalty returns the billable SLA penalty for the order. Only a
// breached resolution deadline counts: quotation total times the committed
// penalty percent.
func (s *InvoiceService) ComputePenalty(order *models.WorkOrder, quotation *models.Quotation, now time.Time) (models.Money, bool) {
	for _, checkpoint := range s.sla.Breaches(order, now) {
		if checkpoint == models.CheckpointResolution {
			penalty := quotation.TotalAmount.Mul(order.SLA.PenaltyPercent.Decimal).Div(hundred)
			return models.MoneyFromDecimal(penalty), true
		}
	}
	return models.MoneyFromInt(0), false
}

// IssueInvoice creates the single invoice for a completed work order and
// moves the order to invoiced. The order must carry an approved quotation;
// an open quotation under the contract's auto-approve limit is approved here
// on behalf of the system before issuing.
func (s *InvoiceService) IssueInvoice(ctx context.Context, orderID string, actor models.Actor) (*models.Invoice, error) {
	order, err := s.orderRepo.GetWorkOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, NewEngineError(KindNotFound, "work order not found", "orderID", orderID)
	}
	if order.Status != models.WorkOrderStatusCompleted {
		return nil, NewEngineError(KindInvalidTransition,
			"only completed work orders can be invoiced",
			"orderID", orderID, "status", string(order.Status))
	}

	existing, err := s.invoiceRepo.GetInvoiceByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewEngineError(KindValidation,
			"work order is already invoiced",
			"orderID", orderID, "invoiceID", existing.InvoiceID)
	}

	quotation, err := s.billableQuotation(ctx, order)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &models.Invoice{
		InvoiceID:     utils.GenerateUUID(),
		InvoiceNumber: utils.GenerateInvoiceNumber(now),
		OrderID:       orderID,
		QuotationID:   quotation.QuotationID,
		ClientID:      order.ClientID,
		Status:        models.InvoiceStatusDraft,
		IssuedAt:      now,
		DueDate:       now.AddDate(0, 0, s.paymentTermsDays(ctx, order)),
	}

	for _, item := range quotation.Items {
		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	subtotal := quotation.TotalAmount.Decimal
	penalty, breached := s.ComputePenalty(order, quotation, now)
	if breached && penalty.IsPositive() {
		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			Description: "SLA penalty: resolution deadline missed",
			Quantity:    models.MoneyFromInt(1),
			UnitPrice:   models.MoneyFromDecimal(penalty.Neg()),
			Total:       models.MoneyFromDecimal(penalty.Neg()),
			Penalty:     true,
		})
		s.logger.Warnf("Order %s resolution SLA breached, applying penalty %s", orderID, penalty.String())
	}

	invoice.Subtotal = models.MoneyFromDecimal(subtotal)
	invoice.PenaltyAmount = penalty
	invoice.TotalAmount = models.MoneyFromDecimal(subtotal.Sub(penalty.Decimal))

	created, err := s.invoiceRepo.CreateInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}

	transition := &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInvoiced,
		ExpectedVersion: order.Version,
		Notes:           "invoice " + created.InvoiceNumber + " issued",
	}
	if _, err := s.workOrders.TransitionWorkOrder(ctx, orderID, transition, actor); err != nil {
		// The order did not move to invoiced, so the invoice row must not
		// survive either or every retry would trip the already-invoiced guard.
		if delErr := s.invoiceRepo.DeleteInvoice(ctx, created.InvoiceID); delErr != nil {
			s.logger.Errorf("Failed to roll back invoice %s after transition failure: %v", created.InvoiceID, delErr)
		}
		return nil, err
	}

	s.logger.Infof("Invoice %s issued for order %s, total %s",
		created.InvoiceNumber, orderID, created.TotalAmount.String())
	return created, nil
}

// billableQuotation finds the approved quotation for the order, auto-approving
// a qualifying open one first. No coverage at all is a missing-approval error.
func (s *InvoiceService) billableQuotation(ctx context.Context, order *models.WorkOrder) (*models.Quotation, error) {
	quotations, err := s.quotationRepo.GetQuotationsByOrder(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}

	var open *models.Quotation
	for _, q := range quotations {
		if q.Status == models.QuotationStatusApproved {
			return q, nil
		}
		if q.Status.IsOpen() {
			open = q
		}
	}

	if open != nil && order.Priority != models.PriorityEmergency && order.ContractID != "" {
		contract, err := s.contractRepo.GetContract(ctx, order.ContractID)
		if err != nil {
			return nil, err
		}
		if contract != nil && contract.AutoApproveLimit != nil &&
			!open.TotalAmount.GreaterThan(contract.AutoApproveLimit.Decimal) {
			now := time.Now()
			open.Status = models.QuotationStatusApproved
			open.DecidedBy = models.AutoApprovalActor
			open.DecidedAt = &now
			approved, err := s.quotationRepo.UpdateQuotation(ctx, open, open.Version)
			if err != nil {
				return nil, err
			}
			s.logger.Infof("Quotation %s auto-approved at invoicing for order %s",
				approved.QuotationID, order.OrderID)
			return approved, nil
		}
	}

	return nil, NewEngineError(KindMissingApproval,
		"work order has no approved quotation to invoice",
		"orderID", order.OrderID)
}

func (s *InvoiceService) paymentTermsDays(ctx context.Context, order *models.WorkOrder) int {
	if order.ContractID == "" {
		return defaultPaymentTermsDays
	}
	contract, err := s.contractRepo.GetContract(ctx, order.ContractID)
	if err != nil || contract == nil || contract.PaymentTermsDays <= 0 {
		return defaultPaymentTermsDays
	}
	return contract.PaymentTermsDays
}

// SendInvoice moves a draft invoice to sent.
func (s *InvoiceService) SendInvoice(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error) {
	return s.setStatus(ctx, invoiceID, models.InvoiceStatusDraft, models.InvoiceStatusSent, nil)
}

// MarkPaid records payment against a sent or overdue invoice.
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceStatusSent && invoice.Status != models.InvoiceStatusOverdue {
		return nil, NewEngineError(KindInvalidTransition,
			"only sent or overdue invoices can be paid",
			"invoiceID", invoiceID, "status", string(invoice.Status))
	}

	now := time.Now()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidDate = &now
	return s.invoiceRepo.UpdateInvoice(ctx, invoice)
}

// CancelInvoice voids a draft invoice before it is sent.
func (s *InvoiceService) CancelInvoice(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error) {
	return s.setStatus(ctx, invoiceID, models.InvoiceStatusDraft, models.InvoiceStatusCancelled, nil)
}

// SweepOverdue marks sent invoices past their due date as overdue and
// returns how many were checked and flipped. Called from the worker.
func (s *InvoiceService) SweepOverdue(ctx context.Context, now time.Time) (checked int, flipped int, err error) {
	sent, err := s.invoiceRepo.GetInvoicesByStatus(ctx, models.InvoiceStatusSent)
	if err != nil {
		return 0, 0, err
	}
	for _, invoice := range sent {
		checked++
		if !now.After(invoice.DueDate) {
			continue
		}
		invoice.Status = models.InvoiceStatusOverdue
		if _, err := s.invoiceRepo.UpdateInvoice(ctx, invoice); err != nil {
			s.logger.Errorf("Failed to mark invoice %s overdue: %v", invoice.InvoiceID, err)
			continue
		}
		flipped++
		s.logger.Infof("Invoice %s overdue since %s", invoice.InvoiceNumber,
			invoice.DueDate.Format(time.RFC3339))
	}
	return checked, flipped, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	return s.getInvoice(ctx, invoiceID)
}

func (s *InvoiceService) GetInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, NewEngineError(KindNotFound, "no invoice for work order", "orderID", orderID)
	}
	return invoice, nil
}

func (s *InvoiceService) getInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	if invoiceID == "" {
		return nil, NewEngineError(KindValidation, "invoice ID is required")
	}
	invoice, err := s.invoiceRepo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, NewEngineError(KindNotFound, "invoice not found", "invoiceID", invoiceID)
	}
	return invoice, nil
}

func (s *InvoiceService) setStatus(ctx context.Context, invoiceID string, from, to models.InvoiceStatus, mutate func(*models.Invoice)) (*models.Invoice, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != from {
		return nil, NewEngineError(KindInvalidTransition,
			"invoice is not in the required state",
			"invoiceID", invoiceID, "status", string(invoice.Status), "required", string(from))
	}
	invoice.Status = to
	if mutate != nil {
		mutate(invoice)
	}
	return s.invoiceRepo.UpdateInvoice(ctx, invoice)
}
