package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"

	"fieldserve-backend/infrastructure"
	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// TableProvisioner creates the DynamoDB tables the engine needs
type TableProvisioner struct {
	Config   *models.Config
	Logger   logger.Logger
	DBClient models.DBClient
}

// EnsureTables creates every configured table, skipping ones that already exist
func (tp *TableProvisioner) EnsureTables(ctx context.Context, statusManager *StatusManager) error {
	tp.Logger.Info("Starting table provisioning")

	if err := statusManager.UpdateProgress(models.StatusCreatingTables, "Provisioning DynamoDB tables", nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Sequential creation avoids throttling on local DynamoDB
	for _, name := range tp.tableNames() {
		if err := tp.createTableWithRetry(ctx, name); err != nil {
			tp.Logger.Errorf("Failed to create table %s: %v", name, err)
			statusManager.MarkFailed(fmt.Sprintf("Failed to create table %s: %v", name, err))
			return err
		}

		statusManager.AddTableCreated(name)
		tp.Logger.Infof("Table %s is ready", name)
	}

	return nil
}

func (tp *TableProvisioner) tableNames() []string {
	var names []string
	for _, tableName := range tp.Config.Tables {
		names = append(names, tp.Config.DynamoDBTablePrefix+"_"+tableName)
	}
	return names
}

func (tp *TableProvisioner) createTableWithRetry(ctx context.Context, tableName string) error {
	maxRetries := 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * baseDelay
			tp.Logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableName, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if exists, err := tp.tableExists(ctx, tableName); err != nil {
			tp.Logger.Errorf("Failed to check if table exists: %v", err)
			continue
		} else if exists {
			tp.Logger.Infof("Table %s already exists, skipping creation", tableName)
			return nil
		}

		if err := tp.createTable(ctx, tableName); err != nil {
			if isTableInUseError(err) {
				// Another instance got there first
				tp.Logger.Infof("Table %s is being created elsewhere", tableName)
				return nil
			}
			tp.Logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableName, err)

			if attempt == maxRetries {
				return fmt.Errorf("failed to create table %s after %d attempts: %w", tableName, maxRetries+1, err)
			}
			continue
		}

		return nil
	}

	return fmt.Errorf("exhausted all retry attempts for table %s", tableName)
}

func (tp *TableProvisioner) createTable(ctx context.Context, tableName string) error {
	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return fmt.Errorf("failed to get table input: %w", err)
	}
	if err := tp.DBClient.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (tp *TableProvisioner) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := tp.DBClient.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// validateTables checks that every configured table is ACTIVE
func (tp *TableProvisioner) validateTables(ctx context.Context) error {
	for _, name := range tp.tableNames() {
		desc, err := tp.DBClient.DescribeTable(ctx, name)
		if err != nil {
			return fmt.Errorf("table %s validation failed: %w", name, err)
		}

		if desc.Table.TableStatus != "ACTIVE" {
			return fmt.Errorf("table %s is not active: %s", name, desc.Table.TableStatus)
		}
	}

	return nil
}

func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Table not found") ||
		strings.Contains(errorStr, "Requested resource not found")
}

func isTableInUseError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceInUseException"
	}

	return strings.Contains(err.Error(), "ResourceInUseException")
}
