package backup_test

import (
	"path/filepath"
	"testing"
	"time"

	"task-tracker/backend/internal/backup"
	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/database"
)

func setupScheduler(t *testing.T) (*backup.Scheduler, *config.Store) {
	t.Helper()
	dir := t.TempDir()

	settings, err := config.NewStore(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Failed to create settings: %v", err)
	}
	if err := settings.Set("database", "path", filepath.Join(dir, "data", "tasks.db")); err != nil {
		t.Fatalf("Failed to point settings at temp store: %v", err)
	}

	manager, err := database.Open(settings)
	if err != nil {
		t.Fatalf("Failed to open manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })
	if err := manager.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	return backup.NewScheduler(settings, manager), settings
}

func TestIsDueWhenNeverBackedUp(t *testing.T) {
	scheduler, _ := setupScheduler(t)

	if !scheduler.IsDue() {
		t.Error("Expected backup to be due when none has ever completed")
	}
}

func TestIsDueRespectsEnabledFlag(t *testing.T) {
	scheduler, settings := setupScheduler(t)

	if err := settings.Set("database", "backup_enabled", false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if scheduler.IsDue() {
		t.Error("Expected no backup when backups are disabled")
	}
}

func TestIsDueAfterIntervalElapsed(t *testing.T) {
	scheduler, settings := setupScheduler(t)

	stale := time.Now().Add(-48 * time.Hour)
	if err := settings.SetLastBackup(stale); err != nil {
		t.Fatalf("SetLastBackup failed: %v", err)
	}
	if !scheduler.IsDue() {
		t.Error("Expected backup to be due after the interval elapsed")
	}
}

func TestNotDueWithinInterval(t *testing.T) {
	scheduler, _ := setupScheduler(t)

	if err := scheduler.RecordCompleted(); err != nil {
		t.Fatalf("RecordCompleted failed: %v", err)
	}
	if scheduler.IsDue() {
		t.Error("Expected no backup right after recording one")
	}
}

func TestMalformedTimestampFailsOpen(t *testing.T) {
	scheduler, settings := setupScheduler(t)

	if err := settings.Set("database", "last_backup", "not a timestamp"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !scheduler.IsDue() {
		t.Error("Expected unparseable last-backup time to count as due")
	}
}

func TestRunIfDueTakesAndRecordsBackup(t *testing.T) {
	scheduler, settings := setupScheduler(t)

	taken, err := scheduler.RunIfDue()
	if err != nil {
		t.Fatalf("RunIfDue failed: %v", err)
	}
	if !taken {
		t.Fatal("Expected a backup to be taken")
	}
	if _, ok := settings.LastBackup(); !ok {
		t.Error("Expected completion to be recorded")
	}

	taken, err = scheduler.RunIfDue()
	if err != nil {
		t.Fatalf("Second RunIfDue failed: %v", err)
	}
	if taken {
		t.Error("Expected no second backup within the interval")
	}
}
