package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"task-tracker/backend/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrBackupFailed       = errors.New("backup failed")
)

// Manager owns the physical store: location, schema, and backups. Statement
// execution goes through the embedded gorm handle, whose connection pool
// acquires and releases a connection per statement on every exit path.
type Manager struct {
	db     *gorm.DB
	driver string
	path   string
}

// Open connects to the store described by the settings document. For the
// sqlite driver the parent directory is created when absent.
func Open(settings *config.Store) (*Manager, error) {
	driver := settings.DatabaseDriver()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case "sqlite":
		path := settings.DatabasePath()
		if err := config.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %v", ErrStorageUnavailable, err)
		}
		db, err := gorm.Open(sqlite.Open(path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: open sqlite store %s: %v", ErrStorageUnavailable, path, err)
		}
		return &Manager{db: db, driver: driver, path: path}, nil
	case "postgres":
		db, err := gorm.Open(postgres.Open(settings.DatabaseDSN()), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: open postgres store: %v", ErrStorageUnavailable, err)
		}
		return &Manager{db: db, driver: driver}, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrStorageUnavailable, driver)
	}
}

func (m *Manager) DB() *gorm.DB {
	return m.db
}

func (m *Manager) Driver() string {
	return m.driver
}

func (m *Manager) Path() string {
	return m.path
}

// EnsureSchema idempotently creates the tasks table and its indexes.
func (m *Manager) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT DEFAULT 'pending',
			priority INTEGER DEFAULT 1,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_status ON tasks (status)`,
		`CREATE INDEX IF NOT EXISTS idx_priority ON tasks (priority)`,
		`CREATE INDEX IF NOT EXISTS idx_created_at ON tasks (created_at)`,
	}

	for _, stmt := range statements {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Println("Database initialized with required tables and indexes")
	return nil
}

// Backup writes an atomic point-in-time copy of the live store to destination.
// An empty destination synthesizes a timestamped path next to the store so
// repeated backups never collide. The destination is never partially
// overwritten: a failed copy removes whatever it wrote.
func (m *Manager) Backup(destination string) (string, error) {
	if m.driver != "sqlite" {
		return "", fmt.Errorf("%w: backups are only supported for the sqlite driver", ErrBackupFailed)
	}

	if destination == "" {
		timestamp := time.Now().Format("20060102_150405")
		destination = filepath.Join(filepath.Dir(m.path), fmt.Sprintf("backup_%s.db", timestamp))
	}

	if _, err := os.Stat(m.path); err != nil {
		return "", fmt.Errorf("%w: source database does not exist: %s", ErrBackupFailed, m.path)
	}

	if err := config.EnsureParentDir(destination); err != nil {
		return "", fmt.Errorf("%w: create backup directory: %v", ErrBackupFailed, err)
	}

	if _, err := os.Stat(destination); err == nil {
		return "", fmt.Errorf("%w: destination already exists: %s", ErrBackupFailed, destination)
	}

	// VACUUM INTO produces a consistent snapshot without blocking readers.
	if err := m.db.Exec("VACUUM INTO ?", destination).Error; err != nil {
		os.Remove(destination)
		return "", fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}

	log.Printf("Database backed up successfully to %s", destination)
	return destination, nil
}

type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

type TableInfo struct {
	Columns  []ColumnInfo `json:"columns"`
	RowCount int64        `json:"row_count"`
}

// DescribeSchema reports the column layout and row count of every table.
// Diagnostics only, core logic never calls it.
func (m *Manager) DescribeSchema() (map[string]TableInfo, error) {
	tables, err := m.db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	info := make(map[string]TableInfo, len(tables))
	for _, table := range tables {
		columnTypes, err := m.db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("describe table %s: %w", table, err)
		}

		columns := make([]ColumnInfo, 0, len(columnTypes))
		for _, col := range columnTypes {
			nullable, _ := col.Nullable()
			primary, _ := col.PrimaryKey()
			columns = append(columns, ColumnInfo{
				Name:       col.Name(),
				Type:       col.DatabaseTypeName(),
				Nullable:   nullable,
				PrimaryKey: primary,
			})
		}

		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count rows in %s: %w", table, err)
		}

		info[table] = TableInfo{Columns: columns, RowCount: count}
	}
	return info, nil
}

// Ping verifies the underlying connection is usable.
func (m *Manager) Ping() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
