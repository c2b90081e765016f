package backup

import (
	"log"
	"time"

	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/database"
)

// Scheduler decides from persisted settings whether a backup is due and
// records completions. The check runs synchronously at process start or on
// operator request, never on a timer.
type Scheduler struct {
	settings *config.Store
	manager  *database.Manager
}

func NewScheduler(settings *config.Store, manager *database.Manager) *Scheduler {
	return &Scheduler{settings: settings, manager: manager}
}

// IsDue reports whether a backup should be taken now. An unparseable
// last-backup timestamp counts as due, failing open toward taking a backup.
func (s *Scheduler) IsDue() bool {
	if !s.settings.BackupEnabled() {
		return false
	}

	last, ok := s.settings.LastBackup()
	if !ok {
		return true
	}

	lastTime, err := time.Parse(time.RFC3339, last)
	if err != nil {
		log.Printf("Error parsing last backup time %q: %v", last, err)
		return true
	}

	return time.Since(lastTime) >= s.settings.BackupInterval()
}

// RecordCompleted persists the current time as the last-backup timestamp.
func (s *Scheduler) RecordCompleted() error {
	return s.settings.SetLastBackup(time.Now())
}

// RunIfDue takes and records a backup when one is due. Returns whether a
// backup was taken.
func (s *Scheduler) RunIfDue() (bool, error) {
	if !s.IsDue() {
		return false, nil
	}

	log.Println("Performing scheduled database backup")
	if _, err := s.manager.Backup(""); err != nil {
		return false, err
	}
	if err := s.RecordCompleted(); err != nil {
		return true, err
	}
	return true, nil
}
