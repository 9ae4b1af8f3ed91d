package services

import (
	"context"
	"time"

	"fieldserve-backend/models"
)

// ContractServiceInterface defines the contract for contract management
type ContractServiceInterface interface {
	CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error)
	ActivateContract(ctx context.Context, contractID string) (*models.Contract, error)
	TerminateContract(ctx context.Context, contractID string) (*models.Contract, error)
	UpsertRate(ctx context.Context, contractID string, req *models.UpsertContractRateRequest) (*models.Contract, error)
	UpsertSLA(ctx context.Context, contractID string, req *models.UpsertContractSLARequest) (*models.Contract, error)
	GetContract(ctx context.Context, contractID string) (*models.Contract, error)
	ListContractsByClient(ctx context.Context, clientID string) ([]*models.Contract, error)
	ActiveForClient(ctx context.Context, clientID string, at time.Time) (*models.Contract, error)
}

// WorkOrderServiceInterface defines the contract for the work order lifecycle
type WorkOrderServiceInterface interface {
	CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest, actor models.Actor) (*models.WorkOrder, error)
	TransitionWorkOrder(ctx context.Context, orderID string, req *models.TransitionWorkOrderRequest, actor models.Actor) (*models.WorkOrder, error)
	EvaluateSLA(ctx context.Context, orderID string) (*models.SLAEvaluation, error)
	GetWorkOrder(ctx context.Context, orderID string) (*models.WorkOrder, error)
	ListWorkOrders(ctx context.Context, filter *models.WorkOrderFilter) ([]*models.WorkOrder, error)
}

// QuotationServiceInterface defines the contract for quotation handling
type QuotationServiceInterface interface {
	DraftQuotation(ctx context.Context, orderID string, req *models.DraftQuotationRequest, actor models.Actor) (*models.Quotation, error)
	SendQuotation(ctx context.Context, quotationID string, expectedVersion int64, actor models.Actor) (*models.Quotation, error)
	DecideQuotation(ctx context.Context, quotationID string, req *models.DecideQuotationRequest, actor models.Actor) (*models.Quotation, error)
	ListQuotations(ctx context.Context, orderID string) ([]*models.Quotation, error)
}

// InvoiceServiceInterface defines the contract for invoicing
type InvoiceServiceInterface interface {
	IssueInvoice(ctx context.Context, orderID string, actor models.Actor) (*models.Invoice, error)
	SendInvoice(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error)
	CancelInvoice(ctx context.Context, invoiceID string, actor models.Actor) (*models.Invoice, error)
	SweepOverdue(ctx context.Context, now time.Time) (checked int, flipped int, err error)
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetContractService() ContractServiceInterface
	GetWorkOrderService() WorkOrderServiceInterface
	GetQuotationService() QuotationServiceInterface
	GetInvoiceService() InvoiceServiceInterface
}
