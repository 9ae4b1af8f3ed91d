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

type WorkOrderRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewWorkOrderRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *WorkOrderRepository {
	return &WorkOrderRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *WorkOrderRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_workorders"
}

func (r *WorkOrderRepository) CreateWorkOrder(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error) {
	r.logger.Infof("Creating work order: %s", order.OrderNumber)

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1

	if err := r.db.PutItem(ctx, r.tableName(), order); err != nil {
		r.logger.Errorf("Failed to create work order: %v", err)
		return nil, err
	}

	r.logger.Infof("Work order created successfully: %s", order.OrderID)
	return order, nil
}

func (r *WorkOrderRepository) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	if id == "" {
		return nil, errors.New("work order ID is required")
	}

	order := models.WorkOrder{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "orderID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &order)
	if err != nil {
		r.logger.Errorf("Failed to get work order %s: %v", id, err)
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	if order.OrderID == "" {
		return nil, nil
	}
	return &order, nil
}

func (r *WorkOrderRepository) GetWorkOrdersByFilter(ctx context.Context, filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	var orders []*models.WorkOrder
	var err error

	switch {
	case filter != nil && filter.ClientID != "":
		err = r.db.QueryByIndex(ctx, r.tableName(), "clientID-index", "clientID", filter.ClientID, &orders)
	case filter != nil && filter.TechnicianID != "":
		err = r.db.QueryByIndex(ctx, r.tableName(), "technicianID-index", "technicianID", filter.TechnicianID, &orders)
	case filter != nil && filter.Status != "":
		err = r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(filter.Status), &orders)
	default:
		err = r.db.Scan(ctx, r.tableName(), &orders)
	}

	if err != nil {
		r.logger.Errorf("Failed to list work orders: %v", err)
		return nil, err
	}

	return applyWorkOrderFilters(orders, filter), nil
}

// UpdateWorkOrder writes the order back only if the stored version still
// equals expectedVersion, and increments the version in the same write.
func (r *WorkOrderRepository) UpdateWorkOrder(ctx context.Context, order *models.WorkOrder, expectedVersion int64) (*models.WorkOrder, error) {
	if order.OrderID == "" {
		return nil, errors.New("work order ID is required")
	}

	order.Version = expectedVersion + 1
	order.UpdatedAt = time.Now()

	err := r.db.PutItemIfVersion(ctx, r.tableName(), order, "version", expectedVersion)
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			r.logger.Warnf("Version conflict updating work order %s (expected %d)", order.OrderID, expectedVersion)
			return nil, err
		}
		r.logger.Errorf("Failed to update work order %s: %v", order.OrderID, err)
		return nil, err
	}

	return order, nil
}

func applyWorkOrderFilters(orders []*models.WorkOrder, filter *models.WorkOrderFilter) []*models.WorkOrder {
	if filter == nil {
		return orders
	}

	var filtered []*models.WorkOrder
	for _, order := range orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.Category != "" && order.Category != filter.Category {
			continue
		}
		if filter.TechnicianID != "" && order.TechnicianID != filter.TechnicianID {
			continue
		}
		if !filter.FromDate.IsZero() && order.CreatedAt.Before(filter.FromDate) {
			continue
		}
		if !filter.ToDate.IsZero() && order.CreatedAt.After(filter.ToDate) {
			continue
		}
		filtered = append(filtered, order)
	}

	return filtered
}
