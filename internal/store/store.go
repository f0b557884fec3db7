// Package store implements the HostWatch log store: one append-only
// system_log table in a local SQLite file, accessed through GORM.
//
// Every operation opens its own handle and closes it before returning.
// There is no pool and no long-lived connection; the collector and the
// viewer meet only through the file itself.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vesaa/hostwatch/internal/models"
)

var (
	// ErrNotFound is returned by read operations when the database file does not exist yet.
	ErrNotFound = errors.New("database not found")
	// ErrInvalidRecord is returned by Append for rows missing a required column.
	ErrInvalidRecord = errors.New("invalid record")
)

const (
	orderAsc  = "datetime(timestamp) ASC, id ASC"
	orderDesc = "datetime(timestamp) DESC, id DESC"
)

// Store is a handle on the database path; it holds no open connection.
type Store struct {
	path   string
	logger *zap.Logger
}

// New returns a Store for the SQLite file at path. Nothing is opened yet.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, logger: log.Named("store")}
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether the database file is present, without creating it.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnsureSchema creates system_log if it is absent. Existing tables are left
// untouched, so it is safe on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.with(ctx, func(db *gorm.DB) error {
		m := db.Migrator()
		if m.HasTable(&models.Record{}) {
			return nil
		}
		if err := m.CreateTable(&models.Record{}); err != nil {
			return fmt.Errorf("creating system_log: %w", err)
		}
		s.logger.Info("created table", zap.String("table", "system_log"), zap.String("path", s.path))
		return nil
	})
}

// Append inserts rec as a new row in its own transaction. Any ID on rec is
// ignored and the assigned one is not reported back.
func (s *Store) Append(ctx context.Context, rec models.Record) error {
	if rec.Timestamp == "" || rec.PingStatus == "" {
		return fmt.Errorf("%w: timestamp and ping_status are required", ErrInvalidRecord)
	}
	rec.ID = 0
	return s.with(ctx, func(db *gorm.DB) error {
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&rec).Error
		})
		if err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
		s.logger.Debug("appended record", zap.Uint("id", rec.ID), zap.String("timestamp", rec.Timestamp))
		return nil
	})
}

// Recent returns up to limit rows, newest first by parsed timestamp.
// An empty table, or limit <= 0, yields an empty slice.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 {
		return []models.Record{}, nil
	}
	return s.query(ctx, orderDesc, limit)
}

// All returns every row, oldest first by parsed timestamp.
func (s *Store) All(ctx context.Context) ([]models.Record, error) {
	return s.query(ctx, orderAsc, -1)
}

func (s *Store) query(ctx context.Context, order string, limit int) ([]models.Record, error) {
	if !s.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	records := []models.Record{}
	err := s.with(ctx, func(db *gorm.DB) error {
		q := db.Order(order)
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("reading system_log: %w", err)
	}
	return records, nil
}

// with opens the database, runs fn, and always closes the handle.
func (s *Store) with(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			s.logger.Warn("closing database", zap.Error(cerr))
		}
	}()
	return fn(db.WithContext(ctx))
}
