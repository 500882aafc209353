package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

func TestStore_AppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Append(ctx, "Feedback", models.Row{{Column: "Name", Value: "Ali"}, {Column: "Rating", Value: 4}}))
	require.NoError(t, s.Append(ctx, "Feedback", models.Row{{Column: "Name", Value: "Mona"}, {Column: "Rating", Value: 5}}))

	table, err := s.ReadAll(ctx, "Feedback")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Rating"}, table.Columns)
	assert.Equal(t, [][]string{{"Ali", "4"}, {"Mona", "5"}}, table.Rows)
	assert.Equal(t, 2, s.Count("Feedback"))
}

func TestStore_HeaderMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Append(ctx, "Inventory", models.Row{{Column: "A", Value: 1}, {Column: "B", Value: 2}}))
	err := s.Append(ctx, "Inventory", models.Row{{Column: "B", Value: 2}, {Column: "A", Value: 1}})
	require.ErrorIs(t, err, repository.ErrHeaderMismatch)
	assert.Equal(t, 1, s.Count("Inventory"))
}

func TestStore_ReadUnknown(t *testing.T) {
	table, err := NewStore().ReadAll(context.Background(), "Missing")
	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStore()
	require.Error(t, s.Append(ctx, "Inventory", models.Row{{Column: "A", Value: 1}}))
	assert.Equal(t, 0, s.Count("Inventory"))
}
