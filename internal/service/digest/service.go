package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

// Entry is one saved item expiring inside the digest window.
type Entry struct {
	ItemName string
	Barcode  string
	Quantity string
	Expiry   time.Time
}

// Digest groups soon-to-expire items by outlet.
type Digest struct {
	From     time.Time
	To       time.Time
	ByOutlet map[string][]Entry
}

// Total counts entries across all outlets.
func (d Digest) Total() int {
	n := 0
	for _, entries := range d.ByOutlet {
		n += len(entries)
	}
	return n
}

// Text renders the digest as a short chat message.
func (d Digest) Text() string {
	if d.Total() == 0 {
		return fmt.Sprintf("Expiry digest (%s to %s): nothing expiring.", d.From.Format(models.ExpiryDisplayLayout), d.To.Format(models.ExpiryDisplayLayout))
	}

	outlets := make([]string, 0, len(d.ByOutlet))
	for o := range d.ByOutlet {
		outlets = append(outlets, o)
	}
	sort.Strings(outlets)

	var b strings.Builder
	fmt.Fprintf(&b, "Expiry digest (%s to %s): %d item(s).", d.From.Format(models.ExpiryDisplayLayout), d.To.Format(models.ExpiryDisplayLayout), d.Total())
	for _, o := range outlets {
		fmt.Fprintf(&b, "\n%s:", o)
		for _, e := range d.ByOutlet[o] {
			fmt.Fprintf(&b, "\n- %s (%s) x%s, expires %s", e.ItemName, e.Barcode, e.Quantity, e.Expiry.Format(models.ExpiryDisplayLayout))
		}
	}
	return b.String()
}

// Service builds expiry digests from the inventory store.
type Service struct {
	store          repository.Store
	inventoryStore string
	windowDays     int
	loc            *time.Location
	logger         *zap.Logger
	now            func() time.Time
}

// NewService wires a digest builder. A nil location means UTC.
func NewService(store repository.Store, inventoryStore string, windowDays int, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:          store,
		inventoryStore: inventoryStore,
		windowDays:     windowDays,
		loc:            loc,
		logger:         logger,
		now:            time.Now,
	}
}

// Build collects Expiry and Near Expiry rows whose expiry date falls between
// today and today plus the window, inclusive.
func (s *Service) Build(ctx context.Context) (Digest, error) {
	table, err := s.store.ReadAll(ctx, s.inventoryStore)
	if err != nil {
		return Digest{}, fmt.Errorf("load inventory: %w", err)
	}

	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, s.windowDays)

	d := Digest{From: from, To: to, ByOutlet: make(map[string][]Entry)}
	for i := range table.Rows {
		formType := models.FormType(table.Cell(i, models.ColFormType))
		if formType != models.FormExpiry && formType != models.FormNearExpiry {
			continue
		}

		raw := table.Cell(i, models.ColExpiryDate)
		expiry, err := time.ParseInLocation(models.ExpiryDisplayLayout, raw, s.loc)
		if err != nil {
			s.logger.Debug("skip row with invalid expiry", zap.String("value", raw), zap.Error(err))
			continue
		}
		if expiry.Before(from) || expiry.After(to) {
			continue
		}

		outlet := table.Cell(i, models.ColOutlet)
		d.ByOutlet[outlet] = append(d.ByOutlet[outlet], Entry{
			ItemName: table.Cell(i, models.ColItemName),
			Barcode:  table.Cell(i, models.ColBarcode),
			Quantity: table.Cell(i, models.ColQuantity),
			Expiry:   expiry,
		})
	}

	for o := range d.ByOutlet {
		entries := d.ByOutlet[o]
		sort.SliceStable(entries, func(a, b int) bool { return entries[a].Expiry.Before(entries[b].Expiry) })
	}

	return d, nil
}
