package repository

import (
	"context"

	"fieldserve-backend/models"
)

// ContractRepositoryInterface defines the contract for contract storage
type ContractRepositoryInterface interface {
	CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error)
	GetContract(ctx context.Context, id string) (*models.Contract, error)
	GetContractsByClient(ctx context.Context, clientID string) ([]*models.Contract, error)
	UpdateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error)
}

// WorkOrderRepositoryInterface defines the contract for work order storage.
// UpdateWorkOrder performs the compare-and-increment on Version and returns
// dal.ErrConditionalCheckFailed (wrapped) when a stale writer loses the race.
type WorkOrderRepositoryInterface interface {
	CreateWorkOrder(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error)
	GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)
	GetWorkOrdersByFilter(ctx context.Context, filter *models.WorkOrderFilter) ([]*models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, order *models.WorkOrder, expectedVersion int64) (*models.WorkOrder, error)
}

// QuotationRepositoryInterface defines the contract for quotation storage
type QuotationRepositoryInterface interface {
	CreateQuotation(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error)
	GetQuotation(ctx context.Context, id string) (*models.Quotation, error)
	GetQuotationsByOrder(ctx context.Context, orderID string) ([]*models.Quotation, error)
	UpdateQuotation(ctx context.Context, quotation *models.Quotation, expectedVersion int64) (*models.Quotation, error)
}

// InvoiceRepositoryInterface defines the contract for invoice storage
type InvoiceRepositoryInterface interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error)
	GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetContractRepository() ContractRepositoryInterface
	GetWorkOrderRepository() WorkOrderRepositoryInterface
	GetQuotationRepository() QuotationRepositoryInterface
	GetInvoiceRepository() InvoiceRepositoryInterface
}
