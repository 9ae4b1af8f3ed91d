package repository

import (
	"fieldserve-backend/dal"
	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// Repository bundles one repository per aggregate.
type Repository struct {
	Contract  *ContractRepository
	WorkOrder *WorkOrderRepository
	Quotation *QuotationRepository
	Invoice   *InvoiceRepository
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		Contract:  NewContractRepository(db, cfg, log),
		WorkOrder: NewWorkOrderRepository(db, cfg, log),
		Quotation: NewQuotationRepository(db, cfg, log),
		Invoice:   NewInvoiceRepository(db, cfg, log),
	}
}

func (r *Repository) GetContractRepository() ContractRepositoryInterface {
	return r.Contract
}

func (r *Repository) GetWorkOrderRepository() WorkOrderRepositoryInterface {
	return r.WorkOrder
}

func (r *Repository) GetQuotationRepository() QuotationRepositoryInterface {
	return r.Quotation
}

func (r *Repository) GetInvoiceRepository() InvoiceRepositoryInterface {
	return r.Invoice
}
