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

type ContractRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewContractRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ContractRepository {
	return &ContractRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ContractRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_contracts"
}

func (r *ContractRepository) CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	r.logger.Infof("Creating contract for client: %s", contract.ClientID)

	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), contract); err != nil {
		r.logger.Errorf("Failed to create contract: %v", err)
		return nil, err
	}

	return contract, nil
}

func (r *ContractRepository) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	if id == "" {
		return nil, errors.New("contract ID is required")
	}

	contract := models.Contract{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "contractID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &contract)
	if err != nil {
		r.logger.Errorf("Failed to get contract %s: %v", id, err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if contract.ContractID == "" {
		return nil, nil
	}
	return &contract, nil
}

func (r *ContractRepository) GetContractsByClient(ctx context.Context, clientID string) ([]*models.Contract, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}

	var contracts []*models.Contract
	err := r.db.QueryByIndex(ctx, r.tableName(), "clientID-index", "clientID", clientID, &contracts)
	if err != nil {
		r.logger.Errorf("Failed to list contracts for client %s: %v", clientID, err)
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) UpdateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if contract.ContractID == "" {
		return nil, errors.New("contract ID is required")
	}

	contract.UpdatedAt = time.Now()

	if err := r.db.PutItem(ctx, r.tableName(), contract); err != nil {
		r.logger.Errorf("Failed to update contract %s: %v", contract.ContractID, err)
		return nil, err
	}

	return contract, nil
}
