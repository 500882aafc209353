package digest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository/memory"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	recs := []models.InventoryRecord{
		{FormType: models.FormExpiry, Barcode: "1", ItemName: "Milk", Quantity: 2, ExpiryDate: date(2025, 3, 8), Outlet: "Hilal"},
		{FormType: models.FormNearExpiry, Barcode: "2", ItemName: "Laban", Quantity: 1, ExpiryDate: date(2025, 3, 6), Outlet: "Hilal"},
		{FormType: models.FormExpiry, Barcode: "3", ItemName: "Cheese", Quantity: 4, ExpiryDate: date(2025, 3, 12), Outlet: "Wakra"},
		{FormType: models.FormExpiry, Barcode: "4", ItemName: "Late Yogurt", Quantity: 1, ExpiryDate: date(2025, 3, 20), Outlet: "Wakra"},
		{FormType: models.FormExpiry, Barcode: "5", ItemName: "Old Juice", Quantity: 1, ExpiryDate: date(2025, 3, 1), Outlet: "Wakra"},
		{FormType: models.FormDamages, Barcode: "6", ItemName: "Broken Jar", Quantity: 1, Outlet: "Hilal"},
	}
	for _, r := range recs {
		require.NoError(t, store.Append(ctx, "Inventory", r.Row()))
	}

	svc := NewService(store, "Inventory", 7, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) }

	d, err := svc.Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, d.Total())
	require.Len(t, d.ByOutlet["Hilal"], 2)
	assert.Equal(t, "Laban", d.ByOutlet["Hilal"][0].ItemName)
	assert.Equal(t, "Milk", d.ByOutlet["Hilal"][1].ItemName)
	require.Len(t, d.ByOutlet["Wakra"], 1)
	assert.Equal(t, "Cheese", d.ByOutlet["Wakra"][0].ItemName)

	text := d.Text()
	assert.Contains(t, text, "3 item(s)")
	assert.Contains(t, text, "Hilal:")
	assert.Contains(t, text, "Milk (1) x2, expires 08-Mar-25")
}

func TestText_Empty(t *testing.T) {
	d := Digest{From: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Expiry digest (05-Mar-25 to 12-Mar-25): nothing expiring.", d.Text())
}
