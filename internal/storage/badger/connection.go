package badger

import (
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
)

// BadgerDB manages the Badger database connection
type BadgerDB struct {
	db     *badger.DB
	logger arbor.ILogger
}

// NewBadgerDB opens a Badger database at the configured path. An empty path
// opens an in-memory database, used in tests.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	var options badger.Options
	if config.Path == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(config.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		options = badger.DefaultOptions(config.Path)
	}
	options = options.WithLogger(nil)

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger database initialized")

	return &BadgerDB{db: db, logger: logger}, nil
}

// DB returns the underlying badger database
func (b *BadgerDB) DB() *badger.DB {
	return b.db
}

// Close closes the database connection
func (b *BadgerDB) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
