package worker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"

	"fieldserve-backend/dal"
	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

// Worker runs the background cron loop: it provisions the DynamoDB tables
// on the first tick and sweeps sent invoices for overdue on every tick.
type Worker struct {
	Worker *models.Worker // Use pointer to avoid copying mutex

	provisioner *TableProvisioner
	sweeper     *InvoiceSweeper
}

func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Unique owner ID for the file lock
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &models.WorkerConfig{
		CronSchedule:      cronScheduleFor(cfg),
		LockTimeout:       30 * time.Minute,
		LockRetryInterval: 5 * time.Second,
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		Environment:       cfg.AppEnv,
		RequiredTables:    cfg.Tables,
		LockFilePath:      fmt.Sprintf("/tmp/fieldserve-worker-%s.lock", cfg.AppEnv),
		StatusFilePath:    fmt.Sprintf("/tmp/fieldserve-status-%s.json", cfg.AppEnv),
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	dbClient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	repoContainer := repository.NewRepository(dbClient, cfg, log)
	serviceContainer := services.NewService(repoContainer, log, cfg)

	lockManager := NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment)
	statusManager := NewStatusManager(workerConfig.StatusFilePath)

	ctx, cancel := context.WithCancel(ctx)

	return &Worker{
		Worker: &models.Worker{
			Config:        cfg,
			Logger:        log,
			CronJob:       cron.New(),
			LockManager:   lockManager,
			StatusManager: statusManager.ToModelsStatusManager(),
			WorkerConfig:  workerConfig,
			OwnerID:       ownerID,
			StopChan:      make(chan struct{}),
			Ctx:           ctx,
			Cancel:        cancel,
		},
		provisioner: &TableProvisioner{
			Config:   cfg,
			Logger:   log,
			DBClient: dbClient,
		},
		sweeper: NewInvoiceSweeper(serviceContainer.GetInvoiceService(), log),
	}, nil
}

// Start starts the cron loop and fires an immediate first tick
func (w *Worker) Start() error {
	w.Worker.Mu.Lock()
	defer w.Worker.Mu.Unlock()

	if w.Worker.IsRunning {
		return fmt.Errorf("worker is already running")
	}

	select {
	case <-w.Worker.Ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.Worker.Logger.Infof("Starting background worker with schedule: %s", w.Worker.WorkerConfig.CronSchedule)
	w.Worker.Logger.Infof("Worker ID: %s", w.Worker.OwnerID)

	if err := w.Worker.CronJob.AddFunc(w.Worker.WorkerConfig.CronSchedule, w.executeTickWithContext); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	w.Worker.CronJob.Start()
	w.Worker.IsRunning = true

	go func() {
		w.Worker.Logger.Info("Running initial worker tick")
		w.executeTickWithContext()
	}()

	return nil
}

// executeTickWithContext is the context-aware cron job function
func (w *Worker) executeTickWithContext() {
	ctx, cancel := context.WithTimeout(w.Worker.Ctx, 15*time.Minute)
	defer cancel()

	w.executeTick(ctx)
}

// executeTick runs one worker cycle under the file lock
func (w *Worker) executeTick(ctx context.Context) {
	select {
	case <-w.Worker.Ctx.Done():
		w.Worker.Logger.Info("Worker is stopping, skipping tick")
		return
	case <-ctx.Done():
		w.Worker.Logger.Info("Context cancelled, skipping tick")
		return
	default:
	}

	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}

	lockInfo, err := w.acquireLockWithContext(ctx)
	if err != nil {
		w.Worker.Logger.Warnf("Failed to acquire lock: %v", err)
		return
	}

	defer func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		if err := lockManager.ReleaseLock(lockInfo); err != nil {
			w.Worker.Logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	// Phase 1: table provisioning, once per environment
	if completed, err := statusManager.IsSetupCompleted(); err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			w.Worker.Logger.Debug("Status file not found, proceeding with setup")
		} else {
			w.Worker.Logger.Errorf("Failed to check completion status: %v", err)
		}
		if err := w.runSetup(ctx, statusManager); err != nil {
			return
		}
	} else if !completed {
		if err := w.runSetup(ctx, statusManager); err != nil {
			return
		}
	}

	// Phase 2: overdue invoice sweep, every tick
	if err := w.sweeper.Run(ctx, statusManager); err != nil {
		w.Worker.Logger.Errorf("Invoice sweep failed: %v", err)
		w.handleTickFailure(statusManager, err)
		return
	}

	if err := statusManager.MarkCompleted(); err != nil {
		w.Worker.Logger.Errorf("Failed to mark run as completed: %v", err)
	}
}

// runSetup provisions tables with panic recovery
func (w *Worker) runSetup(ctx context.Context, statusManager *StatusManager) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("table provisioning panicked: %v", r)
			w.Worker.Logger.Errorf("Setup panic: %v", err)
			statusManager.MarkFailed(err.Error())
		}
	}()

	result := &models.ExecutionResult{
		StartTime:     time.Now(),
		Status:        models.StatusRunning,
		Environment:   w.Worker.Config.AppEnv,
		TablesCreated: make([]string, 0),
		Metadata:      make(map[string]any),
	}
	if err := statusManager.SaveStatus(result); err != nil {
		w.Worker.Logger.Errorf("Failed to save initial status: %v", err)
	}

	if err := w.provisioner.EnsureTables(ctx, statusManager); err != nil {
		w.handleTickFailure(statusManager, err)
		return err
	}

	if err := w.provisioner.validateTables(ctx); err != nil {
		w.Worker.Logger.Warnf("Table validation failed: %v", err)
	}

	w.Worker.Logger.Info("Table provisioning completed, all tables are ready")
	return nil
}

// handleTickFailure records the failure and applies the retry budget
func (w *Worker) handleTickFailure(statusManager *StatusManager, tickErr error) {
	retryCount, err := statusManager.GetRetryCount()
	if err != nil {
		w.Worker.Logger.Warnf("Failed to get retry count, assuming 0: %v", err)
		retryCount = 0
	}

	if retryCount >= w.Worker.WorkerConfig.MaxRetries {
		w.Worker.Logger.Errorf("Maximum retries (%d) exceeded", w.Worker.WorkerConfig.MaxRetries)
		statusManager.MarkFailed(fmt.Sprintf("Max retries exceeded: %v", tickErr))
		return
	}

	if err := statusManager.IncrementRetryCount(); err != nil {
		w.Worker.Logger.Errorf("Failed to increment retry count: %v", err)
		return
	}

	w.Worker.Logger.Warnf("Worker tick failed (attempt %d/%d), next cron tick will retry: %v",
		retryCount+1, w.Worker.WorkerConfig.MaxRetries+1, tickErr)

	statusManager.UpdateProgress(models.StatusRetrying,
		fmt.Sprintf("Retrying after failure: %v", tickErr),
		map[string]any{"last_error": tickErr.Error()})
}

// Stop stops the worker and its cron loop
func (w *Worker) Stop() error {
	w.Worker.StopOnce.Do(func() {
		w.Worker.Mu.Lock()
		defer w.Worker.Mu.Unlock()

		if !w.Worker.IsRunning {
			return
		}

		w.Worker.Logger.Info("Stopping background worker")

		if w.Worker.Cancel != nil {
			w.Worker.Cancel()
		}

		if w.Worker.CronJob != nil {
			w.Worker.CronJob.Stop()
		}

		w.Worker.IsRunning = false

		select {
		case <-w.Worker.StopChan:
		default:
			close(w.Worker.StopChan)
		}

		w.Worker.Logger.Info("Background worker stopped")
	})

	return nil
}

// GetStatus returns the result of the last worker run
func (w *Worker) GetStatus() (*models.ExecutionResult, error) {
	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}
	return statusManager.LoadStatus()
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.Worker.Mu.RLock()
	defer w.Worker.Mu.RUnlock()
	return w.Worker.IsRunning
}

// acquireLockWithContext tries to acquire the lock with cancellation support
func (w *Worker) acquireLockWithContext(ctx context.Context) (*models.LockInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	type result struct {
		lockInfo *models.LockInfo
		err      error
	}

	resultChan := make(chan result, 1)

	go func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		lockInfo, err := lockManager.AcquireLock(w.Worker.OwnerID)
		resultChan <- result{lockInfo, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("lock acquisition cancelled: %w", ctx.Err())
	case res := <-resultChan:
		return res.lockInfo, res.err
	}
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}

	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}

	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}

	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}

	if config.CronSchedule != "" {
		cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := cronParser.Parse(config.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
		}
	}

	return nil
}

// cronScheduleFor prefers the configured schedule, falling back to an
// environment default.
func cronScheduleFor(cfg *models.Config) string {
	if cfg.WorkerCronSchedule != "" {
		return cfg.WorkerCronSchedule
	}

	switch cfg.AppEnv {
	case "development":
		return "*/30 * * * * *"
	case "production":
		return "0 */15 * * * *"
	default:
		return "0 */10 * * * *"
	}
}
