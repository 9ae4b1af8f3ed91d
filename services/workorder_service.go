package services

import (
	"context"
	"errors"
	"time"

	"fieldserve-backend/dal"
	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/utils"
	"fieldserve-backend/utils/logger"
)

// workOrderTransitions is the full lifecycle graph. Anything not listed here
// is an illegal edge; there is no skipping.
var workOrderTransitions = map[models.WorkOrderStatus][]models.WorkOrderStatus{
	models.WorkOrderStatusRequested:    {models.WorkOrderStatusPending, models.WorkOrderStatusScheduled, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusPending:      {models.WorkOrderStatusScheduled, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusScheduled:    {models.WorkOrderStatusInProgress, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusInProgress:   {models.WorkOrderStatusWaitingParts, models.WorkOrderStatusCompleted},
	models.WorkOrderStatusWaitingParts: {models.WorkOrderStatusInProgress},
	models.WorkOrderStatusCompleted:    {models.WorkOrderStatusInvoiced},
	models.WorkOrderStatusInvoiced:     {models.WorkOrderStatusClosed},
	models.WorkOrderStatusClosed:       {},
	models.WorkOrderStatusCancelled:    {},
}

// CanTransition reports whether the edge exists in the lifecycle graph.
func CanTransition(from, to models.WorkOrderStatus) bool {
	for _, allowed := range workOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type WorkOrderService struct {
	orderRepo     repository.WorkOrderRepositoryInterface
	contractRepo  repository.ContractRepositoryInterface
	quotationRepo repository.QuotationRepositoryInterface
	sla           *SLAService
	logger        logger.Logger
}

func NewWorkOrderService(
	orderRepo repository.WorkOrderRepositoryInterface,
	contractRepo repository.ContractRepositoryInterface,
	quotationRepo repository.QuotationRepositoryInterface,
	sla *SLAService,
	log logger.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:     orderRepo,
		contractRepo:  contractRepo,
		quotationRepo: quotationRepo,
		sla:           sla,
		logger:        log,
	}
}

// CreateWorkOrder registers a new order and stamps its SLA deadlines from the
// client's active contract (or the platform default policy).
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest, actor models.Actor) (*models.WorkOrder, error) {
	if req == nil {
		return nil, NewEngineError(KindValidation, "work order request is required")
	}
	if actor.Role == models.RoleClient && actor.ID != req.ClientID {
		return nil, NewEngineError(KindValidation, "clients may only create their own work orders", "clientID", req.ClientID)
	}

	now := time.Now()
	contract, err := s.activeContractForClient(ctx, req.ClientID, now)
	if err != nil {
		return nil, err
	}

	policy, usedDefault := s.sla.PolicyOrDefault(contract, req.Priority)

	order := &models.WorkOrder{
		OrderID:       utils.GenerateUUID(),
		OrderNumber:   utils.GenerateOrderNumber(now),
		ClientID:      req.ClientID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        models.WorkOrderStatusRequested,
		RequiresQuote: req.RequiresQuote,
		ScheduledDate: req.ScheduledDate,
		SLA:           s.sla.Commitment(now, req.Priority, policy, usedDefault),
	}
	if contract != nil {
		order.ContractID = contract.ContractID
	}

	created, err := s.orderRepo.CreateWorkOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Work order %s created for client %s (priority %s, resolution due %s)",
		created.OrderNumber, created.ClientID, created.Priority,
		created.SLA.ResolutionDeadline.Format(time.RFC3339))
	return created, nil
}

// TransitionWorkOrder validates an edge against the lifecycle graph, the
// caller's role and the order's data, then persists it with the optimistic
// version check. A requiresQuote order asked to schedule without an approved
// quotation is routed to pending approval instead.
func (s *WorkOrderService) TransitionWorkOrder(ctx context.Context, orderID string, req *models.TransitionWorkOrderRequest, actor models.Actor) (*models.WorkOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Version != req.ExpectedVersion {
		return nil, NewEngineError(KindConcurrentModification,
			"work order was modified by another caller",
			"orderID", orderID)
	}

	target := req.TargetStatus
	if target == models.WorkOrderStatusScheduled && order.RequiresQuote && order.Status == models.WorkOrderStatusRequested {
		approved, err := s.hasApprovedQuotation(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !approved {
			target = models.WorkOrderStatusPending
		}
	}

	if err := s.validateTransition(ctx, order, target, req, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	previous := order.Status
	order.Status = target
	order.StatusHistory = append(order.StatusHistory, models.StatusChange{
		PreviousStatus: previous,
		NewStatus:      target,
		ActorID:        actor.ID,
		Timestamp:      now,
		Notes:          req.Notes,
	})

	s.applyTransitionEffects(order, previous, target, req, now)

	updated, err := s.orderRepo.UpdateWorkOrder(ctx, order, req.ExpectedVersion)
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			return nil, WrapEngineError(err, KindConcurrentModification,
				"work order was modified by another caller",
				"orderID", orderID)
		}
		return nil, err
	}

	s.logger.Infof("Work order %s: %s -> %s by %s (%s)", order.OrderNumber, previous, target, actor.ID, actor.Role)
	return updated, nil
}

func (s *WorkOrderService) validateTransition(ctx context.Context, order *models.WorkOrder, target models.WorkOrderStatus, req *models.TransitionWorkOrderRequest, actor models.Actor) error {
	if !CanTransition(order.Status, target) {
		return NewEngineError(KindInvalidTransition,
			"illegal state transition",
			"orderID", order.OrderID,
			"from", string(order.Status),
			"to", string(target))
	}

	switch target {
	case models.WorkOrderStatusScheduled, models.WorkOrderStatusPending:
		if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
			return s.roleError(order, target, actor)
		}
		if target == models.WorkOrderStatusScheduled && order.TechnicianID == "" && req.TechnicianID == "" {
			return NewEngineError(KindInvalidTransition,
				"technician assignment is required before scheduling",
				"orderID", order.OrderID)
		}
		if target == models.WorkOrderStatusScheduled && order.Status == models.WorkOrderStatusPending {
			approved, err := s.hasApprovedQuotation(ctx, order.OrderID)
			if err != nil {
				return err
			}
			if !approved {
				return NewEngineError(KindMissingApproval,
					"scheduling a pending order requires an approved quotation",
					"orderID", order.OrderID)
			}
		}

	case models.WorkOrderStatusInProgress, models.WorkOrderStatusWaitingParts, models.WorkOrderStatusCompleted:
		if actor.Role != models.RoleTechnician || !order.IsAssignedTo(actor.ID) {
			return s.roleError(order, target, actor)
		}

	case models.WorkOrderStatusInvoiced:
		if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager && actor.Role != models.RoleSystem {
			return s.roleError(order, target, actor)
		}
		covered, err := s.invoicingCovered(ctx, order)
		if err != nil {
			return err
		}
		if !covered {
			return NewEngineError(KindMissingApproval,
				"invoicing requires an approved quotation or auto-approve cover",
				"orderID", order.OrderID)
		}

	case models.WorkOrderStatusClosed:
		if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
			return s.roleError(order, target, actor)
		}

	case models.WorkOrderStatusCancelled:
		isOwner := actor.Role == models.RoleClient && order.IsOwnedBy(actor.ID)
		if !isOwner && actor.Role != models.RoleAdmin {
			return s.roleError(order, target, actor)
		}
	}

	return nil
}

func (s *WorkOrderService) roleError(order *models.WorkOrder, target models.WorkOrderStatus, actor models.Actor) error {
	return NewEngineError(KindInvalidTransition,
		"actor role not permitted for this transition",
		"orderID", order.OrderID,
		"to", string(target),
		"role", string(actor.Role))
}

// applyTransitionEffects records the lifecycle timestamps the SLA tracker
// evaluates against. First response is the first move out of requested into
// an active state; on-site is the entry into in_progress.
func (s *WorkOrderService) applyTransitionEffects(order *models.WorkOrder, previous, target models.WorkOrderStatus, req *models.TransitionWorkOrderRequest, now time.Time) {
	switch target {
	case models.WorkOrderStatusScheduled:
		if req.TechnicianID != "" {
			order.TechnicianID = req.TechnicianID
		}
		if req.ScheduledDate != nil {
			order.ScheduledDate = req.ScheduledDate
		}
		if previous == models.WorkOrderStatusRequested || previous == models.WorkOrderStatusPending {
			if order.RespondedAt == nil {
				t := now
				order.RespondedAt = &t
			}
		}
	case models.WorkOrderStatusPending:
		if order.RespondedAt == nil {
			t := now
			order.RespondedAt = &t
		}
	case models.WorkOrderStatusInProgress:
		if order.StartedAt == nil {
			t := now
			order.StartedAt = &t
		}
	case models.WorkOrderStatusCompleted:
		if order.CompletedAt == nil {
			t := now
			order.CompletedAt = &t
		}
	case models.WorkOrderStatusCancelled:
		t := now
		order.CancelledAt = &t
	}
}

// EvaluateSLA computes deadlines and breached checkpoints for an order.
func (s *WorkOrderService) EvaluateSLA(ctx context.Context, orderID string) (*models.SLAEvaluation, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.sla.Evaluate(order, time.Now()), nil
}

func (s *WorkOrderService) GetWorkOrder(ctx context.Context, orderID string) (*models.WorkOrder, error) {
	return s.getOrder(ctx, orderID)
}

func (s *WorkOrderService) ListWorkOrders(ctx context.Context, filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	return s.orderRepo.GetWorkOrdersByFilter(ctx, filter)
}

func (s *WorkOrderService) getOrder(ctx context.Context, orderID string) (*models.WorkOrder, error) {
	if orderID == "" {
		return nil, NewEngineError(KindValidation, "order ID is required")
	}
	order, err := s.orderRepo.GetWorkOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, NewEngineError(KindNotFound, "work order not found", "orderID", orderID)
	}
	return order, nil
}

func (s *WorkOrderService) activeContractForClient(ctx context.Context, clientID string, at time.Time) (*models.Contract, error) {
	contracts, err := s.contractRepo.GetContractsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, c := range contracts {
		if c.IsActiveAt(at) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *WorkOrderService) hasApprovedQuotation(ctx context.Context, orderID string) (bool, error) {
	quotations, err := s.quotationRepo.GetQuotationsByOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, q := range quotations {
		if q.Status == models.QuotationStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

// invoicingCovered checks the completed->invoiced gate: either an approved
// quotation exists, or the contract's autoApproveLimit covers the latest open
// quotation's total and the order is not an emergency.
func (s *WorkOrderService) invoicingCovered(ctx context.Context, order *models.WorkOrder) (bool, error) {
	quotations, err := s.quotationRepo.GetQuotationsByOrder(ctx, order.OrderID)
	if err != nil {
		return false, err
	}

	var open *models.Quotation
	for _, q := range quotations {
		if q.Status == models.QuotationStatusApproved {
			return true, nil
		}
		if q.Status.IsOpen() {
			open = q
		}
	}

	if open == nil || order.Priority == models.PriorityEmergency || order.ContractID == "" {
		return false, nil
	}

	contract, err := s.contractRepo.GetContract(ctx, order.ContractID)
	if err != nil || contract == nil {
		return false, err
	}
	if contract.AutoApproveLimit == nil {
		return false, nil
	}
	return open.TotalAmount.LessThanOrEqual(contract.AutoApproveLimit.Decimal), nil
}
