package services

import (
	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	contractService  ContractServiceInterface
	workOrderService WorkOrderServiceInterface
	quotationService QuotationServiceInterface
	invoiceService   InvoiceServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	logger logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	contractRepo := repoContainer.GetContractRepository()
	orderRepo := repoContainer.GetWorkOrderRepository()
	quotationRepo := repoContainer.GetQuotationRepository()
	invoiceRepo := repoContainer.GetInvoiceRepository()

	calendar := NewConfigHolidayCalendar(config.Holidays)
	rates := NewRateResolver(calendar, config, logger)
	sla := NewSLAService(config, logger)

	workOrders := NewWorkOrderService(orderRepo, contractRepo, quotationRepo, sla, logger)

	return &Service{
		contractService:  NewContractService(contractRepo, logger),
		workOrderService: workOrders,
		quotationService: NewQuotationService(quotationRepo, orderRepo, contractRepo, rates, config, logger),
		invoiceService:   NewInvoiceService(invoiceRepo, quotationRepo, orderRepo, contractRepo, workOrders, sla, logger),
	}
}

// GetContractService returns the contract service interface
func (s *Service) GetContractService() ContractServiceInterface {
	return s.contractService
}

// GetWorkOrderService returns the work order service interface
func (s *Service) GetWorkOrderService() WorkOrderServiceInterface {
	return s.workOrderService
}

// GetQuotationService returns the quotation service interface
func (s *Service) GetQuotationService() QuotationServiceInterface {
	return s.quotationService
}

// GetInvoiceService returns the invoice service interface
func (s *Service) GetInvoiceService() InvoiceServiceInterface {
	return s.invoiceService
}
