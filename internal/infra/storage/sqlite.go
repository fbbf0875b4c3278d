package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"clob_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists book snapshots and quotes in SQLite
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (and migrates) the database at path.
// An empty path uses the OS config directory.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		var err error
		dbPath, err = getDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.BookSnapshot{}, &domain.QuoteRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ClobGo", "data", "clob.db"), nil
}

// Close releases the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ======================================================================================
// Book Snapshots
// ======================================================================================

// SaveBookSnapshot stores a fetched book
func (s *Storage) SaveBookSnapshot(tokenID string, book *domain.OrderBookSummary) error {
	return s.db.Create(domain.NewBookSnapshot(tokenID, book)).Error
}

// LatestBookSnapshot returns the newest snapshot of tokenID
func (s *Storage) LatestBookSnapshot(tokenID string) (*domain.BookSnapshot, error) {
	var snap domain.BookSnapshot
	err := s.db.Where("token_id = ?", tokenID).Order("id DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ======================================================================================
// Quotes
// ======================================================================================

// SaveQuote stores a computed market price
func (s *Storage) SaveQuote(q domain.Quote) error {
	return s.db.Create(domain.NewQuoteRecord(q)).Error
}

// ListQuotes returns the newest quotes of tokenID, newest first.
// limit <= 0 returns all.
func (s *Storage) ListQuotes(tokenID string, limit int) ([]domain.QuoteRecord, error) {
	var quotes []domain.QuoteRecord
	q := s.db.Where("token_id = ?", tokenID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&quotes).Error
	return quotes, err
}
