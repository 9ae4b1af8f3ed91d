package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldserve-backend/dal"
	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

type InvoiceRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewInvoiceRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *InvoiceRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_invoices"
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	r.logger.Infof("Creating invoice %s for order: %s", invoice.InvoiceNumber, invoice.OrderID)

	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), invoice); err != nil {
		r.logger.Errorf("Failed to create invoice: %v", err)
		return nil, err
	}

	return invoice, nil
}

func (r *InvoiceRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	if id == "" {
		return nil, errors.New("invoice ID is required")
	}

	invoice := models.Invoice{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "invoiceID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &invoice)
	if err != nil {
		r.logger.Errorf("Failed to get invoice %s: %v", id, err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.InvoiceID == "" {
		return nil, nil
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetInvoiceByOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}

	invoice := models.Invoice{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "orderID-index",
		KeyName:   "orderID",
		KeyValue:  orderID,
		KeyType:   models.StringType,
	}, &invoice)
	if err != nil {
		r.logger.Errorf("Failed to get invoice for order %s: %v", orderID, err)
		return nil, err
	}

	if invoice.InvoiceID == "" {
		return nil, nil
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(status), &invoices)
	if err != nil {
		r.logger.Errorf("Failed to list invoices by status %s: %v", status, err)
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invoice ID is required")
	}

	if err := r.db.DeleteItem(ctx, r.tableName(), "invoiceID", id); err != nil {
		r.logger.Errorf("Failed to delete invoice %s: %v", id, err)
		return err
	}

	return nil
}

func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.InvoiceID == "" {
		return nil, errors.New("invoice ID is required")
	}

	invoice.UpdatedAt = time.Now()

	if err := r.db.PutItem(ctx, r.tableName(), invoice); err != nil {
		r.logger.Errorf("Failed to update invoice %s: %v", invoice.InvoiceID, err)
		return nil, err
	}

	return invoice, nil
}
