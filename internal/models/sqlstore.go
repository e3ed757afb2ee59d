package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLDatabase is the sqlite-backed catalog, selected with CATALOG_BACKEND=sqlite
type SQLDatabase struct {
	db *gorm.DB
}

// NewSQLDatabase opens (and migrates) a sqlite catalog
func NewSQLDatabase(path string) (*SQLDatabase, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Content{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLDatabase{db: db}, nil
}

// Close closes the underlying connection pool
func (s *SQLDatabase) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindByKey retrieves a catalog entry by identity key
func (s *SQLDatabase) FindByKey(key string) (*Content, error) {
	var content Content
	err := s.db.First(&content, "content_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// FindMaxUpdated retrieves the entry of a type with the latest LastUpdated
func (s *SQLDatabase) FindMaxUpdated(contentType ContentType) (*Content, error) {
	var content Content
	err := s.db.Where("content_type = ?", contentType).
		Order("last_updated DESC").
		Take(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// Insert stores a new catalog entry
func (s *SQLDatabase) Insert(content *Content) error {
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	return s.db.Create(content).Error
}

// Replace overwrites an existing entry in a single transaction
func (s *SQLDatabase) Replace(key string, content *Content) error {
	content.Key = key
	return s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Content{}).Where("content_key = ?", key).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Save(content).Error
	})
}

// Count returns the number of entries of a type
func (s *SQLDatabase) Count(contentType ContentType) (int, error) {
	var n int64
	err := s.db.Model(&Content{}).Where("content_type = ?", contentType).Count(&n).Error
	return int(n), err
}
