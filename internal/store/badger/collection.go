// Package badger persists the store document in an embedded BadgerDB.
// The whole document lives under one key, so a replace is a single
// transactional write.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// documentKey holds the JSON-encoded store document.
const documentKey = "linkbot:document"

// Collection is a BadgerDB-backed durable collection.
type Collection struct {
	db *badger.DB
}

// badgerLogger adapts logger.Logger to badger.Logger.
type badgerLogger struct {
	log logger.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (bl *badgerLogger) Errorf(msg string, items ...any)   { bl.log.Errorf(msg, items...) }
func (bl *badgerLogger) Warningf(msg string, items ...any) { bl.log.Warnf(msg, items...) }
func (bl *badgerLogger) Infof(msg string, items ...any)    { bl.log.Debugf(msg, items...) }
func (bl *badgerLogger) Debugf(msg string, items ...any)   { bl.log.Debugf(msg, items...) }

// Open opens (or creates) a database in dir. An empty dir with inMemory
// set gives a throwaway database.
func Open(dir string, inMemory bool, log logger.Logger) (*Collection, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create badger directory: %w", domain.ErrStoreIO, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = &badgerLogger{log: log.Named("badger")}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger: %w", domain.ErrStoreIO, err)
	}
	return &Collection{db: db}, nil
}

// Load reads the document; a missing key yields an empty document.
func (c *Collection) Load(_ context.Context) (*domain.Document, error) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(documentKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read document: %w", domain.ErrStoreIO, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreCorrupt, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Replace stores doc in one read-write transaction.
func (c *Collection) Replace(_ context.Context, doc *domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(documentKey), data)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write document: %w", domain.ErrStoreIO, err)
	}
	return nil
}

// Close closes the database. Closing twice is a no-op.
func (c *Collection) Close() error {
	if c.db.IsClosed() {
		return nil
	}
	return c.db.Close()
}

