package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFilePath is where the settings document lives unless the caller
// points the store elsewhere.
const DefaultFilePath = "config.json"

// Defaults returns a fresh copy of the default settings document.
func Defaults() map[string]map[string]any {
	return map[string]map[string]any{
		"database": {
			"path":            "database/tasks.db",
			"driver":          "sqlite",
			"dsn":             "",
			"backup_enabled":  true,
			"backup_interval": 86400,
			"last_backup":     nil,
		},
		"api": {
			"host":              "localhost",
			"port":              5000,
			"debug":             false,
			"cors_enabled":      true,
			"rate_limit":        100,
			"cache_enabled":     false,
			"redis_addr":        "localhost:6379",
			"operator_key_hash": "",
		},
		"logging": {
			"level":           "INFO",
			"file_enabled":    true,
			"console_enabled": true,
			"max_file_size":   10485760,
			"backup_count":    3,
		},
	}
}

// Store is a file-backed settings document shared by the process. Every
// mutating call rewrites the backing file synchronously, so the document is
// crash-consistent at each call boundary. It is not safe under concurrent
// writer processes (last write wins).
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]map[string]any
}

// NewStore loads the settings document at path, creating it with defaults
// when missing or unreadable.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultFilePath
	}
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &s.data); jsonErr == nil {
			log.Printf("Configuration loaded from %s", path)
			return s, nil
		}
		log.Printf("Configuration file %s is malformed, rewriting defaults", path)
	} else if os.IsNotExist(err) {
		log.Printf("No configuration file found at %s, creating with defaults", path)
	} else {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	s.data = Defaults()
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// persist rewrites the backing file. Callers must hold the write lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Section returns a copy of one settings section, or nil when absent.
func (s *Store) Section(name string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	section, ok := s.data[name]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(section))
	for k, v := range section {
		out[k] = v
	}
	return out
}

// Get returns a single settings value.
func (s *Store) Get(section, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[section]
	if !ok {
		return nil, false
	}
	value, ok := values[key]
	return value, ok
}

// Set stores a single value and persists the document immediately.
func (s *Store) Set(section, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[section] == nil {
		s.data[section] = map[string]any{}
	}
	s.data[section][key] = value
	return s.persist()
}

// UpdateSection merges values into one section and persists immediately.
func (s *Store) UpdateSection(section string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[section] == nil {
		s.data[section] = map[string]any{}
	}
	for k, v := range values {
		s.data[section][k] = v
	}
	return s.persist()
}

// ResetToDefaults discards the current document and persists the defaults.
func (s *Store) ResetToDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = Defaults()
	if err := s.persist(); err != nil {
		return err
	}
	log.Println("Configuration reset to defaults")
	return nil
}

func (s *Store) stringValue(section, key, fallback string) string {
	if v, ok := s.Get(section, key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

func (s *Store) intValue(section, key string, fallback int) int {
	v, ok := s.Get(section, key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

func (s *Store) boolValue(section, key string, fallback bool) bool {
	if v, ok := s.Get(section, key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func (s *Store) DatabasePath() string {
	return s.stringValue("database", "path", "database/tasks.db")
}

func (s *Store) DatabaseDriver() string {
	return s.stringValue("database", "driver", "sqlite")
}

// DatabaseDSN is only consulted for the postgres driver.
func (s *Store) DatabaseDSN() string {
	return s.stringValue("database", "dsn", "")
}

func (s *Store) BackupEnabled() bool {
	return s.boolValue("database", "backup_enabled", true)
}

func (s *Store) BackupInterval() time.Duration {
	return time.Duration(s.intValue("database", "backup_interval", 86400)) * time.Second
}

// LastBackup returns the recorded completion time of the most recent backup.
// The second result is false when no backup has ever completed.
func (s *Store) LastBackup() (string, bool) {
	v, ok := s.Get("database", "last_backup")
	if !ok || v == nil {
		return "", false
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

func (s *Store) SetLastBackup(t time.Time) error {
	return s.Set("database", "last_backup", t.Format(time.RFC3339))
}

func (s *Store) ServerAddr() string {
	host := s.stringValue("api", "host", "localhost")
	port := s.intValue("api", "port", 5000)
	return fmt.Sprintf("%s:%d", host, port)
}

func (s *Store) DebugEnabled() bool {
	return s.boolValue("api", "debug", false)
}

func (s *Store) CORSEnabled() bool {
	return s.boolValue("api", "cors_enabled", true)
}

func (s *Store) RateLimitPerMinute() int {
	return s.intValue("api", "rate_limit", 100)
}

func (s *Store) CacheEnabled() bool {
	return s.boolValue("api", "cache_enabled", false)
}

func (s *Store) RedisAddr() string {
	return s.stringValue("api", "redis_addr", "localhost:6379")
}

// OperatorKeyHash is the bcrypt hash of the operator key. Empty means the
// operator endpoints are unauthenticated.
func (s *Store) OperatorKeyHash() string {
	return s.stringValue("api", "operator_key_hash", "")
}

func (s *Store) LogLevel() string {
	return s.stringValue("logging", "level", "INFO")
}

// SafeAPIConfig returns the non-secret subset of the api section for the
// diagnostics surface.
func (s *Store) SafeAPIConfig() map[string]any {
	return map[string]any{
		"host":         s.stringValue("api", "host", "localhost"),
		"port":         s.intValue("api", "port", 5000),
		"cors_enabled": s.CORSEnabled(),
	}
}

// EnsureParentDir creates the directory holding path when absent.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
