package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
)

// ErrHeaderMismatch indicates a row's columns differ from the store's header row.
var ErrHeaderMismatch = errors.New("row columns do not match store header")

// ErrEmptyStoreID indicates a call without a target store.
var ErrEmptyStoreID = errors.New("store id must not be empty")

// Store is the remote append/read contract every backend implements.
type Store interface {
	Append(ctx context.Context, storeID string, row models.Row) error
	ReadAll(ctx context.Context, storeID string) (models.Table, error)
}

// CheckHeader verifies that existing header columns match the row.
func CheckHeader(existing []string, row models.Row) error {
	cols := row.Columns()
	if len(existing) != len(cols) {
		return fmt.Errorf("%w: store has %d columns, row has %d", ErrHeaderMismatch, len(existing), len(cols))
	}
	for i := range cols {
		if existing[i] != cols[i] {
			return fmt.Errorf("%w: column %d is %q, row has %q", ErrHeaderMismatch, i+1, existing[i], cols[i])
		}
	}
	return nil
}

// CellString renders a stored cell value for display.
func CellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
