package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
)

func TestCheckHeader(t *testing.T) {
	row := models.Row{{Column: "A", Value: 1}, {Column: "B", Value: 2}}

	require.NoError(t, CheckHeader([]string{"A", "B"}, row))
	assert.ErrorIs(t, CheckHeader([]string{"B", "A"}, row), ErrHeaderMismatch)
	assert.ErrorIs(t, CheckHeader([]string{"A"}, row), ErrHeaderMismatch)
}

func TestCheckHeader_InventoryRow(t *testing.T) {
	rec := models.InventoryRecord{FormType: models.FormDamages}
	require.NoError(t, CheckHeader(models.InventoryColumns, rec.Row()))

	fb := models.FeedbackRecord{Rating: 3}
	require.NoError(t, CheckHeader(models.FeedbackColumns, fb.Row()))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "3", CellString(3))
	assert.Equal(t, "30.00", CellString("30.00"))
}
