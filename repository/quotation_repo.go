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

type QuotationRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewQuotationRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *QuotationRepository {
	return &QuotationRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *QuotationRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_quotations"
}

func (r *QuotationRepository) CreateQuotation(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error) {
	r.logger.Infof("Creating quotation for order: %s", quotation.OrderID)

	now := time.Now()
	quotation.CreatedAt = now
	quotation.UpdatedAt = now
	quotation.Version = 1

	if err := r.db.PutItem(ctx, r.tableName(), quotation); err != nil {
		r.logger.Errorf("Failed to create quotation: %v", err)
		return nil, err
	}

	return quotation, nil
}

func (r *QuotationRepository) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	if id == "" {
		return nil, errors.New("quotation ID is required")
	}

	quotation := models.Quotation{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "quotationID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &quotation)
	if err != nil {
		r.logger.Errorf("Failed to get quotation %s: %v", id, err)
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.QuotationID == "" {
		return nil, nil
	}
	return &quotation, nil
}

func (r *QuotationRepository) GetQuotationsByOrder(ctx context.Context, orderID string) ([]*models.Quotation, error) {
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}

	var quotations []*models.Quotation
	err := r.db.QueryByIndex(ctx, r.tableName(), "orderID-index", "orderID", orderID, &quotations)
	if err != nil {
		r.logger.Errorf("Failed to list quotations for order %s: %v", orderID, err)
		return nil, err
	}
	return quotations, nil
}

// UpdateQuotation uses the same compare-and-increment discipline as work
// orders: two operators racing to decide the same quotation cannot both win.
func (r *QuotationRepository) UpdateQuotation(ctx context.Context, quotation *models.Quotation, expectedVersion int64) (*models.Quotation, error) {
	if quotation.QuotationID == "" {
		return nil, errors.New("quotation ID is required")
	}

	quotation.Version = expectedVersion + 1
	quotation.UpdatedAt = time.Now()

	err := r.db.PutItemIfVersion(ctx, r.tableName(), quotation, "version", expectedVersion)
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			r.logger.Warnf("Version conflict updating quotation %s (expected %d)", quotation.QuotationID, expectedVersion)
			return nil, err
		}
		r.logger.Errorf("Failed to update quotation %s: %v", quotation.QuotationID, err)
		return nil, err
	}

	return quotation, nil
}
