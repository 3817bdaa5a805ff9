// Package storage persists the ledger's record collections as JSON
// documents on disk, one file per collection. Every read materializes a
// full collection and every write replaces one.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"salesledger/internal/logger"
	"salesledger/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Collection names one of the persisted record sets.
type Collection string

const (
	Customers Collection = "customers"
	Products  Collection = "products"
	Orders    Collection = "orders"
)

func init() {
	// Collection files carry currency values as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Store struct {
	dir string

	loads      metrics.Counter
	saves      metrics.Counter
	recoveries metrics.Counter
}

// Stats is a snapshot of the store's collection traffic since open.
type Stats struct {
	Loads      uint64
	Saves      uint64
	Recoveries uint64
}

func (s *Store) Stats() Stats {
	return Stats{
		Loads:      s.loads.Load(),
		Saves:      s.saves.Load(),
		Recoveries: s.recoveries.Load(),
	}
}

// Open prepares the data directory and materializes empty collection
// files that do not exist yet.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir}
	for _, c := range []Collection{Customers, Products, Orders} {
		path := s.path(c)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := WriteFileAtomic(path, []byte("[]")); err != nil {
				return nil, fmt.Errorf("init %s: %w", c, err)
			}
		}
	}

	logger.FromCtx(ctx).Debug("store opened", zap.String("dir", dir))
	return s, nil
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// Load decodes the collection file into out, which must be a pointer to
// a slice of records. A missing or unparsable file leaves out empty:
// every mutation rewrites the whole collection, so an unreadable file
// degrades to an empty collection instead of failing the caller.
func (s *Store) Load(ctx context.Context, c Collection, out any) error {
	s.loads.Inc()

	data, err := os.ReadFile(s.path(c))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", c, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Unmarshal may have filled part of the slice before failing.
		if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer {
			v.Elem().Set(reflect.Zero(v.Elem().Type()))
		}
		s.recoveries.Inc()
		logger.FromCtx(ctx).Warn("collection file unparsable, treating as empty",
			zap.String("collection", string(c)),
			zap.Error(err),
		)
	}
	return nil
}

// Save replaces the collection contents. The document goes to a
// temporary sibling file first and is renamed into place, so a crash
// mid-write cannot truncate the collection.
func (s *Store) Save(ctx context.Context, c Collection, records any) error {
	s.saves.Inc()
	timer := metrics.StartTimer()

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := WriteFileAtomic(s.path(c), data); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}

	logger.FromCtx(ctx).Debug("collection saved",
		zap.String("collection", string(c)),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", timer.Duration()),
	)
	return nil
}

// WriteFileAtomic writes data through a temporary sibling file and a
// rename.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
