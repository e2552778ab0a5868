package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/hourtree/internal/models"
)

// Store is the persistent store for tasks and timespans. It owns a single
// database connection for its whole lifetime and is not safe for use by
// more than one writer.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now      func() time.Time
	logLevel logger.LogLevel
}

// WithClock overrides the time source used for new timespans and tasks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogLevel sets the GORM logger level. Silent by default.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		now:      time.Now,
		logLevel: logger.Silent, // Quiet by default
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Ensure the directory exists
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:  logger.Default.LogMode(o.logLevel),
		NowFunc: o.now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: the store has a single owner and the foreign key
	// pragma is per connection.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: gdb, now: o.now}

	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// dsn appends the foreign key pragma so cascades are enforced by SQLite.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.Task{},
		&models.Timespan{},
	)
}

// Close releases the database connection. It is safe to call more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// ParseLogLevel maps a config level name onto a GORM logger level.
func ParseLogLevel(name string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	default:
		return logger.Silent, fmt.Errorf("%w: unknown log level %q", ErrValidation, name)
	}
}
