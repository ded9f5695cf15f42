package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/flowcast/internal/logger"
	"github.com/terraincognita07/flowcast/internal/models"
)

const (
	backupFilePrefix     = "flowcast-backup-"
	backupFileSuffix     = ".json"
	backupTimestampStyle = "20060102-150405"
	DefaultBackupsKept   = 30
)

var (
	ErrBackupDisabled     = errors.New("backups disabled")
	ErrInvalidBackupCron  = errors.New("invalid backup schedule")
	ErrBackupWriteFailed  = errors.New("write backup failed")
	ErrBackupAlreadyStart = errors.New("backup scheduler already started")
)

type SnapshotLoader interface {
	Load() ([]models.Entry, []models.Symptom, error)
}

// BackupService writes the whole store to a JSON snapshot file on a cron schedule.
type BackupService struct {
	store    SnapshotLoader
	dir      string
	schedule string
	keep     int
	engine   *cron.Cron
	now      func() time.Time
	mu       sync.Mutex
	started  bool
}

func NewBackupService(store SnapshotLoader, dir string, schedule string, location *time.Location) *BackupService {
	if location == nil {
		location = time.UTC
	}
	return &BackupService{
		store:    store,
		dir:      dir,
		schedule: strings.TrimSpace(schedule),
		keep:     DefaultBackupsKept,
		engine:   cron.New(cron.WithLocation(location)),
		now:      time.Now,
	}
}

func (service *BackupService) Enabled() bool {
	return service.schedule != ""
}

func ValidateBackupSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackupCron, err)
	}
	return nil
}

func (service *BackupService) Start() error {
	if !service.Enabled() {
		return ErrBackupDisabled
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	if service.started {
		return ErrBackupAlreadyStart
	}

	_, err := service.engine.AddFunc(service.schedule, func() {
		path, err := service.RunOnce()
		if err != nil {
			logger.Log.WithError(err).Error("scheduled backup failed")
			return
		}
		logger.Log.WithField("path", path).Info("scheduled backup written")
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackupCron, err)
	}

	service.engine.Start()
	service.started = true
	logger.Log.WithFields(logrus.Fields{"schedule": service.schedule, "dir": service.dir}).Info("backup scheduler started")
	return nil
}

// Stop waits for a running backup to finish.
func (service *BackupService) Stop() {
	service.mu.Lock()
	defer service.mu.Unlock()
	if !service.started {
		return
	}
	<-service.engine.Stop().Done()
	service.started = false
	logger.Log.Info("backup scheduler stopped")
}

// RunOnce writes a snapshot file and prunes the oldest ones beyond the retention count.
func (service *BackupService) RunOnce() (string, error) {
	entries, symptoms, err := service.store.Load()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupWriteFailed, err)
	}

	now := service.now()
	payload, err := MarshalSnapshot(BuildSnapshot(entries, symptoms, now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupWriteFailed, err)
	}

	if err := os.MkdirAll(service.dir, 0o700); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupWriteFailed, err)
	}
	path := filepath.Join(service.dir, backupFilePrefix+now.UTC().Format(backupTimestampStyle)+backupFileSuffix)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, payload, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupWriteFailed, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("%w: %v", ErrBackupWriteFailed, err)
	}

	if err := service.prune(); err != nil {
		logger.Log.WithError(err).Warn("prune old backups")
	}
	return path, nil
}

func (service *BackupService) ListBackups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(service.dir, backupFilePrefix+"*"+backupFileSuffix))
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)
	return matches, nil
}

func (service *BackupService) prune() error {
	if service.keep <= 0 {
		return nil
	}
	backups, err := service.ListBackups()
	if err != nil {
		return err
	}
	for len(backups) > service.keep {
		if err := os.Remove(backups[0]); err != nil {
			return err
		}
		backups = backups[1:]
	}
	return nil
}
