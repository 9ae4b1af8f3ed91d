package models

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/robfig/cron"

	"fieldserve-backend/utils/logger"
)

// DBClient interface to avoid circular dependency
type DBClient interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// StatusManager handles worker status tracking
type StatusManager struct {
	StatusFilePath string
}

// LockManager handles distributed locking so only one instance runs the
// setup and billing sweep at a time.
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// Worker manages the background cron job: infrastructure setup on first run,
// then the invoice overdue sweep on every tick.
type Worker struct {
	Config        *Config
	Logger        logger.Logger
	CronJob       *cron.Cron
	LockManager   *LockManager
	StatusManager *StatusManager

	WorkerConfig *WorkerConfig
	OwnerID      string
	IsRunning    bool
	StopChan     chan struct{}

	Mu        sync.RWMutex
	Ctx       context.Context
	Cancel    context.CancelFunc
	SetupOnce sync.Once
	StopOnce  sync.Once
}

// WorkerConfig holds configuration for the background worker
type WorkerConfig struct {
	CronSchedule string `json:"cron_schedule"`

	LockTimeout       time.Duration `json:"lock_timeout"`
	LockRetryInterval time.Duration `json:"lock_retry_interval"`

	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`
}

// LockInfo represents distributed lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerStatus represents the current status of the background worker
type WorkerStatus string

const (
	StatusIdle           WorkerStatus = "idle"
	StatusRunning        WorkerStatus = "running"
	StatusCreatingTables WorkerStatus = "creating_tables"
	StatusSweeping       WorkerStatus = "sweeping_invoices"
	StatusCompleted      WorkerStatus = "completed"
	StatusFailed         WorkerStatus = "failed"
	StatusRetrying       WorkerStatus = "retrying"
)

// ExecutionResult holds the result of the last worker run
type ExecutionResult struct {
	Success   bool          `json:"success"`
	Status    WorkerStatus  `json:"status"`
	Phase     string        `json:"phase,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration"`

	TablesCreated   []string `json:"tables_created"`
	InvoicesSwept   int      `json:"invoices_swept"`
	OverdueInvoices int      `json:"overdue_invoices"`

	ErrorMessage string                 `json:"error_message,omitempty"`
	RetryCount   int                    `json:"retry_count"`
	Environment  string                 `json:"environment"`
	Metadata     map[string]interface{} `json:"metadata"`
}
