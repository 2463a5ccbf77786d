package store

import (
	"context"
	"fmt"
	"sync"

	"holocron/core/database"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Store owns the two persisted units: the encyclopedia (catalogue plus the
// schema version marker) and the collection ledger. They are separate
// databases so that rebuilding the catalogue never touches owned quantities.
type Store struct {
	cfg     Config
	logger  *zap.Logger
	connect func(database.Config) (*gorm.DB, error)

	sf singleflight.Group

	mu           sync.RWMutex
	encyclopedia *gorm.DB
	collection   *gorm.DB
}

// New creates an unopened store. Call Open before using it.
func New(cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cfg:     cfg,
		logger:  logger,
		connect: database.Connect,
	}
}

// Open connects both stores and creates their bootstrap tables. It is safe to
// call concurrently: one open sequence runs and every caller observes its
// outcome. A failed open leaves nothing behind and may be retried.
func (s *Store) Open(ctx context.Context) error {
	if s.ready() {
		return nil
	}

	_, err, _ := s.sf.Do("open", func() (any, error) {
		if s.ready() {
			return nil, nil
		}
		return nil, s.open(context.WithoutCancel(ctx))
	})
	return err
}

func (s *Store) open(ctx context.Context) error {
	encCfg := s.cfg.EncyclopediaConfig()
	enc, err := s.connect(encCfg)
	if err != nil {
		return fmt.Errorf("%w: open encyclopedia: %w", ErrStorageUnavailable, err)
	}
	if err := enc.WithContext(ctx).AutoMigrate(&Metadata{}); err != nil {
		_ = database.Close(enc)
		return fmt.Errorf("%w: create metadata table: %w", ErrStorageUnavailable, err)
	}

	colCfg := s.cfg.CollectionConfig()
	col, err := s.connect(colCfg)
	if err != nil {
		_ = database.Close(enc)
		return fmt.Errorf("%w: open collection: %w", ErrStorageUnavailable, err)
	}
	if err := col.WithContext(ctx).AutoMigrate(&CollectionEntry{}); err != nil {
		_ = database.Close(enc)
		_ = database.Close(col)
		return fmt.Errorf("%w: create collection table: %w", ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	s.encyclopedia = enc
	s.collection = col
	s.mu.Unlock()

	s.logger.Info("Stores opened",
		zap.String("encyclopedia", encCfg.Name),
		zap.String("collection", colCfg.Name),
	)
	return nil
}

func (s *Store) ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encyclopedia != nil && s.collection != nil
}

// Encyclopedia returns the catalogue database handle.
func (s *Store) Encyclopedia() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.encyclopedia == nil {
		return nil, ErrNotInitialized
	}
	return s.encyclopedia, nil
}

// Collection returns the collection ledger database handle.
func (s *Store) Collection() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return nil, ErrNotInitialized
	}
	return s.collection, nil
}

// Close releases both handles. The store can be opened again afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	enc, col := s.encyclopedia, s.collection
	s.encyclopedia, s.collection = nil, nil
	s.mu.Unlock()

	encErr := database.Close(enc)
	colErr := database.Close(col)
	if encErr != nil {
		return encErr
	}
	return colErr
}

// Chunk splits items into slices of at most size elements, for IN clauses.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
