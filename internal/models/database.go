package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// FindByKey retrieves a catalog entry by identity key
func (db *Database) FindByKey(key string) (*Content, error) {
	var content Content
	err := db.store.Get(key, &content)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	content.Key = key
	return &content, nil
}

// FindMaxUpdated retrieves the entry of a type with the latest LastUpdated
func (db *Database) FindMaxUpdated(contentType ContentType) (*Content, error) {
	var contents []Content
	query := bolthold.Where("Type").Eq(contentType).
		SortBy("LastUpdated").Reverse().Limit(1)

	if err := db.store.Find(&contents, query); err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, ErrNotFound
	}
	return &contents[0], nil
}

// Insert stores a new catalog entry
func (db *Database) Insert(content *Content) error {
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	return db.store.Insert(content.Key, content)
}

// Replace overwrites an existing entry in a single transaction
func (db *Database) Replace(key string, content *Content) error {
	content.Key = key
	err := db.store.Update(key, content)
	if errors.Is(err, bolthold.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Count returns the number of entries of a type
func (db *Database) Count(contentType ContentType) (int, error) {
	n, err := db.store.Count(&Content{}, bolthold.Where("Type").Eq(contentType))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
