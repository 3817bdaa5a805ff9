package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salesledger/internal/logger"

	"go.uber.org/zap"
)

const journalFile = "journal.json"

// CommitEntry stages a mutation that spans two collections: the fully
// updated contents of both, written down before either collection file
// is replaced. A leftover entry means the process died mid-commit and
// the whole commit can be replayed from the entry alone.
type CommitEntry struct {
	ID       string          `json:"id"`
	OrderID  int             `json:"order_id"`
	StagedAt time.Time       `json:"staged_at"`
	Products json.RawMessage `json:"products"`
	Orders   json.RawMessage `json:"orders"`
}

func (s *Store) journalPath() string {
	return filepath.Join(s.dir, journalFile)
}

// CommitStaged applies a staged entry: journal first, then each
// collection, then the journal is cleared.
func (s *Store) CommitStaged(ctx context.Context, e CommitEntry) error {
	log := logger.FromCtx(ctx).With(
		zap.String("journal_id", e.ID),
		zap.Int("order_id", e.OrderID),
	)

	data, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := WriteFileAtomic(s.journalPath(), data); err != nil {
		return fmt.Errorf("stage commit: %w", err)
	}

	if err := s.Save(ctx, Products, e.Products); err != nil {
		return err
	}
	if err := s.Save(ctx, Orders, e.Orders); err != nil {
		return err
	}

	if err := s.ClearJournal(); err != nil {
		return err
	}
	log.Debug("staged commit applied")
	return nil
}

// PendingCommit reports the journal entry left behind by an interrupted
// commit, if any. An unparsable journal is dropped.
func (s *Store) PendingCommit(ctx context.Context) (*CommitEntry, bool, error) {
	data, err := os.ReadFile(s.journalPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read journal: %w", err)
	}

	var e CommitEntry
	if err := json.Unmarshal(data, &e); err != nil {
		logger.FromCtx(ctx).Warn("journal unparsable, dropping", zap.Error(err))
		return nil, false, s.ClearJournal()
	}
	return &e, true, nil
}

func (s *Store) ClearJournal() error {
	if err := os.Remove(s.journalPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear journal: %w", err)
	}
	return nil
}
