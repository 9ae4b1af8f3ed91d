package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fieldserve-backend/models"
)

// LockManager embeds models.LockManager to allow method definitions
type LockManager struct {
	models.LockManager
}

// NewLockManager creates a new lock manager
func NewLockManager(lockPath string, timeout time.Duration, env string) *models.LockManager {
	return &models.LockManager{
		LockFilePath: lockPath,
		LockTimeout:  timeout,
		Environment:  env,
	}
}

// AcquireLock takes the file lock. When this owner already holds an
// unexpired lock the expiry is pushed forward instead of failing.
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	if err := os.MkdirAll(filepath.Dir(lm.LockFilePath), 0755); err != nil {
		return nil, err
	}

	now := time.Now()
	held, readErr := lm.currentLock()
	if readErr == nil && now.Before(held.ExpiresAt) {
		if held.Owner != ownerID || held.Environment != lm.Environment {
			return nil, fmt.Errorf("lock held by %s until %s", held.Owner, held.ExpiresAt.Format(time.RFC3339))
		}
		held.ExpiresAt = now.Add(lm.LockTimeout)
		if err := lm.persist(held); err != nil {
			return nil, fmt.Errorf("failed to extend lock: %w", err)
		}
		return held, nil
	}

	fresh := &models.LockInfo{
		ID:          fmt.Sprintf("worker-lock-%d", now.UnixNano()),
		Owner:       ownerID,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(lm.LockTimeout),
		Environment: lm.Environment,
	}
	if err := lm.persist(fresh); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return fresh, nil
}

func (lm *LockManager) currentLock() (*models.LockInfo, error) {
	data, err := os.ReadFile(lm.LockFilePath)
	if err != nil {
		return nil, err
	}
	var info models.LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &info, nil
}

// persist writes the lock via a temp file and rename so a crashed
// writer never leaves a truncated lock behind.
func (lm *LockManager) persist(info *models.LockInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}
	tmp := lm.LockFilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp lock file: %w", err)
	}
	if err := os.Rename(tmp, lm.LockFilePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp lock file: %w", err)
	}
	return nil
}

// CleanupExpiredLocks removes the lock file when its expiry has passed
func (lm *LockManager) CleanupExpiredLocks() error {
	info, err := lm.currentLock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if time.Now().After(info.ExpiresAt) {
		return os.Remove(lm.LockFilePath)
	}
	return nil
}

// ReleaseLock releases the lock if this owner holds it
func (lm *LockManager) ReleaseLock(lockInfo *models.LockInfo) error {
	held, err := lm.currentLock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}
	if held.Owner != lockInfo.Owner {
		return fmt.Errorf("cannot release lock owned by %s", held.Owner)
	}
	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
