package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

// ErrUnknownStore indicates a store name outside inventory/feedback.
var ErrUnknownStore = errors.New("unknown record store")

// Kind names one of the two record stores.
type Kind string

const (
	KindInventory Kind = "inventory"
	KindFeedback  Kind = "feedback"
)

// ParseKind resolves a store name from a URL.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindInventory, KindFeedback:
		return Kind(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStore, value)
}

// Snapshot is one rendering of a saved store. Err is set when the read failed;
// the table is then empty.
type Snapshot struct {
	Kind  Kind
	Table models.Table
	Err   error
}

// Service reads saved records back for the viewer and exports.
type Service struct {
	store          repository.Store
	inventoryStore string
	feedbackStore  string
	timeout        time.Duration
	logger         *zap.Logger
}

// NewService wires the saved-data viewer.
func NewService(store repository.Store, inventoryStore, feedbackStore string, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		store:          store,
		inventoryStore: inventoryStore,
		feedbackStore:  feedbackStore,
		timeout:        timeout,
		logger:         logger,
	}
}

// Load reads the full store, most recent row first. Failures yield an empty
// table with the error attached.
func (s *Service) Load(ctx context.Context, kind Kind) Snapshot {
	storeID, err := s.storeID(kind)
	if err != nil {
		return Snapshot{Kind: kind, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	table, err := s.store.ReadAll(callCtx, storeID)
	if err != nil {
		s.logger.Warn("failed to read saved records", zap.String("store", storeID), zap.Error(err))
		return Snapshot{Kind: kind, Table: models.Table{Columns: defaultColumns(kind)}, Err: fmt.Errorf("read %s records: %w", kind, err)}
	}

	if len(table.Columns) == 0 {
		table.Columns = defaultColumns(kind)
	}
	return Snapshot{Kind: kind, Table: table.Reversed()}
}

// LoadAll reads both stores for the viewer page.
func (s *Service) LoadAll(ctx context.Context) []Snapshot {
	return []Snapshot{s.Load(ctx, KindInventory), s.Load(ctx, KindFeedback)}
}

func (s *Service) storeID(kind Kind) (string, error) {
	switch kind {
	case KindInventory:
		return s.inventoryStore, nil
	case KindFeedback:
		return s.feedbackStore, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStore, kind)
}

func defaultColumns(kind Kind) []string {
	if kind == KindFeedback {
		return append([]string(nil), models.FeedbackColumns...)
	}
	return append([]string(nil), models.InventoryColumns...)
}
