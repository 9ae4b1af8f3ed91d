package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fieldserve-backend/dal"
	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/utils"
	"fieldserve-backend/utils/logger"
)

var hundred = decimal.NewFromInt(100)

// QuotationService drafts quotations from contract rates and owns the
// draft -> sent -> approved/rejected sub-state-machine.
type QuotationService struct {
	quotationRepo repository.QuotationRepositoryInterface
	orderRepo     repository.WorkOrderRepositoryInterface
	contractRepo  repository.ContractRepositoryInterface
	rates         *RateResolver
	taxPercent    decimal.Decimal
	validDays     int
	logger        logger.Logger
}

func NewQuotationService(
	quotationRepo repository.QuotationRepositoryInterface,
	orderRepo repository.WorkOrderRepositoryInterface,
	contractRepo repository.ContractRepositoryInterface,
	rates *RateResolver,
	cfg *models.Config,
	log logger.Logger,
) *QuotationService {
	tax, err := decimal.NewFromString(cfg.TaxPercent)
	if err != nil {
		tax = decimal.Zero
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		contractRepo:  contractRepo,
		rates:         rates,
		taxPercent:    tax,
		validDays:     cfg.QuotationValidDays,
		logger:        log,
	}
}

// DraftQuotation prices the supplied items against the order's contract.
// Labor lines are priced by the rate resolver at each item's time context;
// material and other lines use the supplied unit price. At most one open
// quotation may exist per order, so re-quoting requires the previous one to
// be decided first.
func (s *QuotationService) DraftQuotation(ctx context.Context, orderID string, req *models.DraftQuotationRequest, actor models.Actor) (*models.Quotation, error) {
	order, err := s.orderRepo.GetWorkOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, NewEngineError(KindNotFound, "work order not found", "orderID", orderID)
	}
	if order.Status.IsTerminal() {
		return nil, NewEngineError(KindInvalidTransition,
			"cannot quote a closed or cancelled work order",
			"orderID", orderID, "status", string(order.Status))
	}

	existing, err := s.quotationRepo.GetQuotationsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, q := range existing {
		if q.Status.IsOpen() {
			return nil, NewEngineError(KindValidation,
				"work order already has an open quotation",
				"orderID", orderID, "quotationID", q.QuotationID)
		}
	}

	var contract *models.Contract
	if order.ContractID != "" {
		contract, err = s.contractRepo.GetContract(ctx, order.ContractID)
		if err != nil {
			return nil, err
		}
	}
	if contract == nil {
		return nil, NewEngineError(KindValidation,
			"work order has no contract to quote against",
			"orderID", orderID)
	}

	now := time.Now()
	quotation := &models.Quotation{
		QuotationID: utils.GenerateUUID(),
		OrderID:     orderID,
		ContractID:  contract.ContractID,
		Status:      models.QuotationStatusDraft,
		ValidUntil:  now.AddDate(0, 0, s.validDays),
	}

	laborSubtotal := decimal.Zero
	materialsSubtotal := decimal.Zero
	otherCosts := decimal.Zero

	for _, input := range req.Items {
		quantity, err := decimal.NewFromString(input.Quantity)
		if err != nil || !quantity.IsPositive() {
			return nil, NewEngineError(KindValidation,
				"item quantity must be a positive decimal",
				"description", input.Description)
		}

		var unitPrice decimal.Decimal
		switch input.Type {
		case models.ItemTypeLabor:
			category := input.Category
			if category == "" {
				category = order.Category
			}
			at := now
			if input.PerformedAt != nil {
				at = *input.PerformedAt
			}
			rate, err := s.rates.Resolve(contract, category, at, order.Priority)
			if err != nil {
				return nil, err
			}
			unitPrice = rate.Decimal
		default:
			unitPrice, err = decimal.NewFromString(input.UnitPrice)
			if err != nil {
				return nil, NewEngineError(KindValidation,
					"item unit price must be a decimal",
					"description", input.Description)
			}
		}

		total := quantity.Mul(unitPrice)
		quotation.Items = append(quotation.Items, models.QuotationItem{
			Type:        input.Type,
			Description: input.Description,
			Quantity:    models.MoneyFromDecimal(quantity),
			UnitPrice:   models.MoneyFromDecimal(unitPrice),
			Total:       models.MoneyFromDecimal(total),
		})

		switch input.Type {
		case models.ItemTypeLabor:
			laborSubtotal = laborSubtotal.Add(total)
		case models.ItemTypeMaterial:
			materialsSubtotal = materialsSubtotal.Add(total)
		default:
			otherCosts = otherCosts.Add(total)
		}
	}

	subtotal := laborSubtotal.Add(materialsSubtotal).Add(otherCosts)
	discount := subtotal.Mul(contract.DiscountPercent.Decimal).Div(hundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(s.taxPercent).Div(hundred)

	quotation.LaborSubtotal = models.MoneyFromDecimal(laborSubtotal)
	quotation.MaterialsSubtotal = models.MoneyFromDecimal(materialsSubtotal)
	quotation.OtherCosts = models.MoneyFromDecimal(otherCosts)
	quotation.DiscountAmount = models.MoneyFromDecimal(discount)
	quotation.TaxAmount = models.MoneyFromDecimal(tax)
	quotation.TotalAmount = models.MoneyFromDecimal(taxable.Add(tax))

	s.maybeAutoApprove(quotation, order, contract, now)

	created, err := s.quotationRepo.CreateQuotation(ctx, quotation)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Quotation %s drafted for order %s, total %s (%s)",
		created.QuotationID, orderID, created.TotalAmount.String(), created.Status)
	return created, nil
}

// maybeAutoApprove bypasses the sent step when the contract's auto-approve
// limit covers the total and the order is not an emergency. The approver is
// recorded as the system actor.
func (s *QuotationService) maybeAutoApprove(quotation *models.Quotation, order *models.WorkOrder, contract *models.Contract, now time.Time) {
	if contract.AutoApproveLimit == nil {
		return
	}
	if order.Priority == models.PriorityEmergency {
		return
	}
	if quotation.TotalAmount.GreaterThan(contract.AutoApproveLimit.Decimal) {
		return
	}

	quotation.Status = models.QuotationStatusApproved
	quotation.DecidedBy = models.AutoApprovalActor
	t := now
	quotation.DecidedAt = &t
	s.logger.Infof("Quotation for order %s auto-approved under limit %s", order.OrderID, contract.AutoApproveLimit.String())
}

// SendQuotation moves a draft to sent so the client can decide it.
func (s *QuotationService) SendQuotation(ctx context.Context, quotationID string, expectedVersion int64, actor models.Actor) (*models.Quotation, error) {
	quotation, err := s.getQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != models.QuotationStatusDraft {
		return nil, NewEngineError(KindInvalidTransition,
			"only draft quotations can be sent",
			"quotationID", quotationID, "status", string(quotation.Status))
	}
	if quotation.Version != expectedVersion {
		return nil, NewEngineError(KindConcurrentModification,
			"quotation was modified by another caller",
			"quotationID", quotationID)
	}

	quotation.Status = models.QuotationStatusSent
	return s.updateQuotation(ctx, quotation, expectedVersion)
}

// DecideQuotation approves or rejects a sent quotation. Approval never needs
// a reason; rejection always does. Approved and rejected are terminal: a new
// quotation must be drafted to re-quote.
func (s *QuotationService) DecideQuotation(ctx context.Context, quotationID string, req *models.DecideQuotationRequest, actor models.Actor) (*models.Quotation, error) {
	quotation, err := s.getQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if quotation.Status != models.QuotationStatusSent && quotation.Status != models.QuotationStatusPending {
		return nil, NewEngineError(KindInvalidTransition,
			"quotation is not awaiting a decision",
			"quotationID", quotationID, "status", string(quotation.Status))
	}
	if quotation.Version != req.ExpectedVersion {
		return nil, NewEngineError(KindConcurrentModification,
			"quotation was modified by another caller",
			"quotationID", quotationID)
	}
	if time.Now().After(quotation.ValidUntil) {
		return nil, NewEngineError(KindInvalidTransition,
			"quotation has expired",
			"quotationID", quotationID,
			"validUntil", quotation.ValidUntil.Format(time.RFC3339))
	}

	now := time.Now()
	switch req.Decision {
	case models.DecisionApprove:
		quotation.Status = models.QuotationStatusApproved
	case models.DecisionReject:
		if strings.TrimSpace(req.Comment) == "" {
			return nil, NewEngineError(KindInvalidQuotationReason,
				"rejection requires a non-empty reason",
				"quotationID", quotationID)
		}
		quotation.Status = models.QuotationStatusRejected
	default:
		return nil, NewEngineError(KindValidation, "unknown decision", "decision", string(req.Decision))
	}

	quotation.DecidedBy = actor.ID
	quotation.DecidedAt = &now
	quotation.DecisionComment = req.Comment

	updated, err := s.updateQuotation(ctx, quotation, req.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Quotation %s %s by %s", quotationID, updated.Status, actor.ID)
	return updated, nil
}

func (s *QuotationService) ListQuotations(ctx context.Context, orderID string) ([]*models.Quotation, error) {
	return s.quotationRepo.GetQuotationsByOrder(ctx, orderID)
}

func (s *QuotationService) getQuotation(ctx context.Context, quotationID string) (*models.Quotation, error) {
	if quotationID == "" {
		return nil, NewEngineError(KindValidation, "quotation ID is required")
	}
	quotation, err := s.quotationRepo.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, NewEngineError(KindNotFound, "quotation not found", "quotationID", quotationID)
	}
	return quotation, nil
}

func (s *QuotationService) updateQuotation(ctx context.Context, quotation *models.Quotation, expectedVersion int64) (*models.Quotation, error) {
	updated, err := s.quotationRepo.UpdateQuotation(ctx, quotation, expectedVersion)
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			return nil, WrapEngineError(err, KindConcurrentModification,
				"quotation was modified by another caller",
				"quotationID", quotation.QuotationID)
		}
		return nil, err
	}
	return updated, nil
}
