package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"fieldserve-backend/dal"
	"fieldserve-backend/models"
)

// WorkOrderServiceTestSuite defines a test suite for the work order lifecycle
type WorkOrderServiceTestSuite struct {
	suite.Suite
	ctx               context.Context
	mockOrderRepo     *MockWorkOrderRepository
	mockContractRepo  *MockContractRepository
	mockQuotationRepo *MockQuotationRepository
	mockLogger        *MockLogger
	service           *WorkOrderService
}

// SetupTest runs before each test
func (suite *WorkOrderServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockOrderRepo = &MockWorkOrderRepository{}
	suite.mockContractRepo = &MockContractRepository{}
	suite.mockQuotationRepo = &MockQuotationRepository{}
	suite.mockLogger = newMockLogger()

	sla := NewSLAService(testConfig(), suite.mockLogger)
	suite.service = NewWorkOrderService(
		suite.mockOrderRepo, suite.mockContractRepo, suite.mockQuotationRepo, sla, suite.mockLogger)
}

// TearDownTest runs after each test
func (suite *WorkOrderServiceTestSuite) TearDownTest() {
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockQuotationRepo.AssertExpectations(suite.T())
}

func (suite *WorkOrderServiceTestSuite) order(status models.WorkOrderStatus) *models.WorkOrder {
	createdAt := time.Now().Add(-time.Hour)
	return &models.WorkOrder{
		OrderID:      "order-1",
		OrderNumber:  "WO-20260901-abc123",
		ClientID:     "client-1",
		ContractID:   "contract-1",
		TechnicianID: "tech-1",
		Title:        "Broken compressor",
		Category:     models.CategoryRepair,
		Priority:     models.PriorityUrgent,
		Status:       status,
		Version:      3,
		CreatedAt:    createdAt,
		SLA: models.SLACommitment{
			Priority:              models.PriorityUrgent,
			FirstResponseDeadline: createdAt.Add(time.Hour),
			OnSiteDeadline:        createdAt.Add(4 * time.Hour),
			ResolutionDeadline:    createdAt.Add(24 * time.Hour),
			PenaltyPercent:        mustMoney("10"),
		},
	}
}

// TestTransitionGraph walks every from/to pair and checks exactly the edges
// of the lifecycle graph are accepted.
func (suite *WorkOrderServiceTestSuite) TestTransitionGraph() {
	statuses := []models.WorkOrderStatus{
		models.WorkOrderStatusRequested,
		models.WorkOrderStatusPending,
		models.WorkOrderStatusScheduled,
		models.WorkOrderStatusInProgress,
		models.WorkOrderStatusWaitingParts,
		models.WorkOrderStatusCompleted,
		models.WorkOrderStatusInvoiced,
		models.WorkOrderStatusClosed,
		models.WorkOrderStatusCancelled,
	}

	allowed := map[string]bool{
		"requested->pending_approval": true,
		"requested->scheduled":        true,
		"requested->cancelled":        true,
		"pending_approval->scheduled": true,
		"pending_approval->cancelled": true,
		"scheduled->in_progress":      true,
		"scheduled->cancelled":        true,
		"in_progress->waiting_parts":  true,
		"in_progress->completed":      true,
		"waiting_parts->in_progress":  true,
		"completed->invoiced":         true,
		"invoiced->closed":            true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			edge := fmt.Sprintf("%s->%s", from, to)
			assert.Equal(suite.T(), allowed[edge], CanTransition(from, to), edge)
		}
	}
}

func (suite *WorkOrderServiceTestSuite) TestTerminalStatesHaveNoExits() {
	assert.True(suite.T(), models.WorkOrderStatusClosed.IsTerminal())
	assert.True(suite.T(), models.WorkOrderStatusCancelled.IsTerminal())
	assert.False(suite.T(), models.WorkOrderStatusInvoiced.IsTerminal())
}

func (suite *WorkOrderServiceTestSuite) TestCreateStampsSLAFromContract() {
	contract := &models.Contract{
		ContractID: "contract-1",
		ClientID:   "client-1",
		Status:     models.ContractStatusActive,
		StartDate:  time.Now().Add(-24 * time.Hour),
		SLAs: []models.ContractSLA{
			{
				Priority:             models.PriorityUrgent,
				FirstResponseMinutes: 30,
				OnSiteMinutes:        120,
				ResolutionMinutes:    600,
				PenaltyPercent:       mustMoney("10"),
			},
		},
	}

	suite.mockContractRepo.On("GetContractsByClient", suite.ctx, "client-1").
		Return([]*models.Contract{contract}, nil)
	suite.mockOrderRepo.On("CreateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.Status == models.WorkOrderStatusRequested &&
			o.ContractID == "contract-1" &&
			!o.SLA.DefaultPolicy &&
			o.SLA.OnSiteDeadline.Sub(o.SLA.FirstResponseDeadline) == 90*time.Minute
	})).Return(suite.order(models.WorkOrderStatusRequested), nil)

	result, err := suite.service.CreateWorkOrder(suite.ctx, &models.CreateWorkOrderRequest{
		ClientID: "client-1",
		Title:    "Broken compressor",
		Category: models.CategoryRepair,
		Priority: models.PriorityUrgent,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
}

func (suite *WorkOrderServiceTestSuite) TestCreateFallsBackToDefaultSLA() {
	suite.mockContractRepo.On("GetContractsByClient", suite.ctx, "client-1").
		Return([]*models.Contract{}, nil)
	suite.mockOrderRepo.On("CreateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.SLA.DefaultPolicy
	})).Return(suite.order(models.WorkOrderStatusRequested), nil)

	_, err := suite.service.CreateWorkOrder(suite.ctx, &models.CreateWorkOrderRequest{
		ClientID: "client-1",
		Title:    "Broken compressor",
		Category: models.CategoryRepair,
		Priority: models.PriorityUrgent,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.NoError(suite.T(), err)
}

func (suite *WorkOrderServiceTestSuite) TestClientCannotCreateForOtherClient() {
	_, err := suite.service.CreateWorkOrder(suite.ctx, &models.CreateWorkOrderRequest{
		ClientID: "client-2",
		Title:    "Broken compressor",
		Category: models.CategoryRepair,
		Priority: models.PriorityNormal,
	}, models.Actor{ID: "client-1", Role: models.RoleClient})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindValidation))
}

func (suite *WorkOrderServiceTestSuite) TestStaleVersionRejectedBeforePersisting() {
	order := suite.order(models.WorkOrderStatusScheduled)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInProgress,
		ExpectedVersion: 2,
	}, models.Actor{ID: "tech-1", Role: models.RoleTechnician})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindConcurrentModification))
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateWorkOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkOrderServiceTestSuite) TestLostRaceSurfacesConcurrentModification() {
	order := suite.order(models.WorkOrderStatusScheduled)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.AnythingOfType("*models.WorkOrder"), int64(3)).
		Return(nil, dal.ErrConditionalCheckFailed)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInProgress,
		ExpectedVersion: 3,
	}, models.Actor{ID: "tech-1", Role: models.RoleTechnician})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindConcurrentModification))
}

func (suite *WorkOrderServiceTestSuite) TestIllegalTransitionRejected() {
	order := suite.order(models.WorkOrderStatusRequested)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusCompleted,
		ExpectedVersion: 3,
	}, models.Actor{ID: "tech-1", Role: models.RoleTechnician})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindInvalidTransition))
}

func (suite *WorkOrderServiceTestSuite) TestTechnicianCannotSchedule() {
	order := suite.order(models.WorkOrderStatusRequested)
	order.RequiresQuote = false
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "tech-1", Role: models.RoleTechnician})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindInvalidTransition))
}

func (suite *WorkOrderServiceTestSuite) TestOnlyAssignedTechnicianCanStart() {
	order := suite.order(models.WorkOrderStatusScheduled)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInProgress,
		ExpectedVersion: 3,
	}, models.Actor{ID: "tech-2", Role: models.RoleTechnician})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindInvalidTransition))
}

func (suite *WorkOrderServiceTestSuite) TestSchedulingRequiresTechnician() {
	order := suite.order(models.WorkOrderStatusRequested)
	order.TechnicianID = ""
	order.RequiresQuote = false
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindInvalidTransition))
}

func (suite *WorkOrderServiceTestSuite) TestQuoteRequiredReroutesToPending() {
	order := suite.order(models.WorkOrderStatusRequested)
	order.RequiresQuote = true
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockQuotationRepo.On("GetQuotationsByOrder", suite.ctx, "order-1").
		Return([]*models.Quotation{}, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.Status == models.WorkOrderStatusPending && o.RespondedAt != nil
	}), int64(3)).Return(suite.order(models.WorkOrderStatusPending), nil)

	result, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
}

func (suite *WorkOrderServiceTestSuite) TestApprovedQuotationAllowsScheduling() {
	order := suite.order(models.WorkOrderStatusRequested)
	order.RequiresQuote = true
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockQuotationRepo.On("GetQuotationsByOrder", suite.ctx, "order-1").
		Return([]*models.Quotation{{QuotationID: "q-1", Status: models.QuotationStatusApproved}}, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.Status == models.WorkOrderStatusScheduled
	}), int64(3)).Return(suite.order(models.WorkOrderStatusScheduled), nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.NoError(suite.T(), err)
}

func (suite *WorkOrderServiceTestSuite) TestPendingOrderCannotScheduleWithoutApproval() {
	order := suite.order(models.WorkOrderStatusPending)
	order.RequiresQuote = true
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockQuotationRepo.On("GetQuotationsByOrder", suite.ctx, "order-1").
		Return([]*models.Quotation{}, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindMissingApproval))
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateWorkOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkOrderServiceTestSuite) TestPendingOrderSchedulesOnceApproved() {
	order := suite.order(models.WorkOrderStatusPending)
	order.RequiresQuote = true
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockQuotationRepo.On("GetQuotationsByOrder", suite.ctx, "order-1").
		Return([]*models.Quotation{{QuotationID: "q-1", Status: models.QuotationStatusApproved}}, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.Status == models.WorkOrderStatusScheduled
	}), int64(3)).Return(suite.order(models.WorkOrderStatusScheduled), nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusScheduled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "mgr-1", Role: models.RoleManager})

	assert.NoError(suite.T(), err)
}

func (suite *WorkOrderServiceTestSuite) TestInvoicingWithoutApprovalFails() {
	order := suite.order(models.WorkOrderStatusCompleted)
	order.Priority = models.PriorityEmergency
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockQuotationRepo.On("GetQuotationsByOrder", suite.ctx, "order-1").
		Return([]*models.Quotation{{QuotationID: "q-1", Status: models.QuotationStatusSent}}, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInvoiced,
		ExpectedVersion: 3,
	}, models.Actor{ID: "adm-1", Role: models.RoleAdmin})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindMissingApproval))
}

func (suite *WorkOrderServiceTestSuite) TestClientCancelsOwnOrder() {
	order := suite.order(models.WorkOrderStatusRequested)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		return o.Status == models.WorkOrderStatusCancelled && o.CancelledAt != nil
	}), int64(3)).Return(suite.order(models.WorkOrderStatusCancelled), nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusCancelled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "client-1", Role: models.RoleClient})

	assert.NoError(suite.T(), err)
}

func (suite *WorkOrderServiceTestSuite) TestStrangerCannotCancel() {
	order := suite.order(models.WorkOrderStatusRequested)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusCancelled,
		ExpectedVersion: 3,
	}, models.Actor{ID: "client-2", Role: models.RoleClient})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindInvalidTransition))
}

func (suite *WorkOrderServiceTestSuite) TestTransitionAppendsStatusHistory() {
	order := suite.order(models.WorkOrderStatusScheduled)
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "order-1").Return(order, nil)
	suite.mockOrderRepo.On("UpdateWorkOrder", suite.ctx, mock.MatchedBy(func(o *models.WorkOrder) bool {
		if len(o.StatusHistory) != 1 {
			return false
		}
		entry := o.StatusHistory[0]
		return entry.PreviousStatus == models.WorkOrderStatusScheduled &&
			entry.NewStatus == models.WorkOrderStatusInProgress &&
			entry.ActorID == "tech-1" &&
			o.StartedAt != nil
	}), int64(3)).Return(suite.order(models.WorkOrderStatusInProgress), nil)

	_, err := suite.service.TransitionWorkOrder(suite.ctx, "order-1", &models.TransitionWorkOrderRequest{
		TargetStatus:    models.WorkOrderStatusInProgress,
		ExpectedVersion: 3,
		Notes:           "arrived on site",
	}, models.Actor{ID: "tech-1", Role: models.RoleTechnician})

	assert.NoError(suite.T(), err)
}

func (suite *WorkOrderServiceTestSuite) TestGetWorkOrderNotFound() {
	suite.mockOrderRepo.On("GetWorkOrder", suite.ctx, "missing").Return(nil, nil)

	_, err := suite.service.GetWorkOrder(suite.ctx, "missing")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsKind(err, KindNotFound))
}

func TestWorkOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkOrderServiceTestSuite))
}
