package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldserve-backend/models"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

// newMockLogger returns a logger that tolerates any logging calls
func newMockLogger() *MockLogger {
	logger := &MockLogger{}
	logger.On("Debug", mock.Anything).Return().Maybe()
	logger.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	logger.On("Info", mock.Anything).Return().Maybe()
	logger.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	logger.On("Warn", mock.Anything).Return().Maybe()
	logger.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	logger.On("Error", mock.Anything).Return().Maybe()
	logger.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return logger
}

// testConfig returns a config with the billing defaults used across the suites
func testConfig() *models.Config {
	return &models.Config{
		TaxPercent:                  "16",
		Currency:                    "MXN",
		QuotationValidDays:          14,
		NightStartHour:              19,
		NightEndHour:                7,
		Holidays:                    []string{"2026-12-25"},
		DefaultFirstResponseMinutes: 240,
		DefaultOnSiteMinutes:        1440,
		DefaultResolutionMinutes:    4320,
		DefaultPenaltyPercent:       "5",
	}
}

// MockContractRepository implements ContractRepositoryInterface for testing
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	args := m.Called(ctx, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractRepository) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractRepository) GetContractsByClient(ctx context.Context, clientID string) ([]*models.Contract, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contract), args.Error(1)
}

func (m *MockContractRepository) UpdateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	args := m.Called(ctx, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

// MockWorkOrderRepository implements WorkOrderRepositoryInterface for testing
type MockWorkOrderRepository struct {
	mock.Mock
}

func (m *MockWorkOrderRepository) CreateWorkOrder(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) GetWorkOrdersByFilter(ctx context.Context, filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) UpdateWorkOrder(ctx context.Context, order *models.WorkOrder, expectedVersion int64) (*models.WorkOrder, error) {
	args := m.Called(ctx, order, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

// MockQuotationRepository implements QuotationRepositoryInterface for testing
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) CreateQuotation(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error) {
	args := m.Called(ctx, quotation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) GetQuotationsByOrder(ctx context.Context, orderID string) ([]*models.Quotation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) UpdateQuotation(ctx context.Context, quotation *models.Quotation, expectedVersion int64) (*models.Quotation, error) {
	args := m.Called(ctx, quotation, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quotation), args.Error(1)
}

// MockInvoiceRepository implements InvoiceRepositoryInterface for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
