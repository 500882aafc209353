package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
	"github.com/mamadbah2/outletdesk/internal/session"
)

// ErrRemoteStore wraps every failed remote append.
var ErrRemoteStore = errors.New("remote store append failed")

// ErrRemoteTimeout indicates the remote call exceeded its deadline. It is retryable.
var ErrRemoteTimeout = errors.New("remote store timed out")

// ErrNotLoggedIn indicates an event was dispatched against a signed-out session.
var ErrNotLoggedIn = errors.New("session is not logged in")

// ErrUnsupportedEvent indicates the event type has no handler.
var ErrUnsupportedEvent = errors.New("unsupported event")

const defaultTimeout = 15 * time.Second

// Bounds for cost and selling price input.
const (
	maxMoneyInputLen = 32
	maxMoneyExponent = 9
	minMoneyExponent = -12
)

var maxMoney = decimal.NewFromInt(1_000_000_000)

// EventType enumerates the user actions the dashboard understands.
type EventType string

const (
	EventLookup         EventType = "lookup"
	EventSetStaff       EventType = "set_staff"
	EventSubmitItem     EventType = "submit_item"
	EventRemoveItem     EventType = "remove_item"
	EventClearItems     EventType = "clear_items"
	EventSubmitFeedback EventType = "submit_feedback"
	EventClearFeedback  EventType = "clear_feedback"
	EventSubmitAndClear EventType = "submit_and_clear"
)

// ItemInput carries the raw inventory form values.
type ItemInput struct {
	Barcode      string
	ItemName     string
	Quantity     string
	Cost         string
	SellingPrice string
	ExpiryDate   string
	Supplier     string
	Remarks      string
	FormType     string
	StaffName    string
}

// FeedbackInput carries the raw feedback form values.
type FeedbackInput struct {
	CustomerName string
	Rating       string
	Text         string
}

// Event is one user action against a session.
type Event struct {
	Type      EventType
	Barcode   string
	StaffName string
	Index     int
	Item      ItemInput
	Feedback  FeedbackInput
}

// OutcomeKind classifies the result of an event.
type OutcomeKind string

const (
	OutcomeOK            OutcomeKind = "ok"
	OutcomeCleared       OutcomeKind = "cleared"
	OutcomeFound         OutcomeKind = "found"
	OutcomeNotFound      OutcomeKind = "not_found"
	OutcomeRejected      OutcomeKind = "rejected"
	OutcomeRemoteFailure OutcomeKind = "remote_failure"
)

// Outcome is what the page shows after an event.
type Outcome struct {
	Kind    OutcomeKind
	Level   session.Level
	Message string
	// Err holds the underlying remote error for remote failures.
	Err error
	// Retryable is set when resubmitting the same form may succeed.
	Retryable bool
}

// Catalog resolves barcodes to catalog entries.
type Catalog interface {
	Find(barcode string) (models.LookupEntry, bool)
}

// Options configures a Service.
type Options struct {
	InventoryStore string
	FeedbackStore  string
	Timeout        time.Duration
	// StrictFeedbackCommit skips the session feedback list update when the remote append fails.
	StrictFeedbackCommit bool
}

// Service applies dashboard events to session state and the remote store.
type Service struct {
	store   repository.Store
	catalog Catalog
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// NewService constructs a dashboard dispatcher. A nil catalog matches nothing.
func NewService(store repository.Store, catalog Catalog, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Service{
		store:   store,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Dispatch applies one event. Returned errors are configuration failures;
// validation and remote problems are reported through the Outcome.
func (s *Service) Dispatch(ctx context.Context, st *session.State, ev Event) (Outcome, error) {
	if st == nil {
		return Outcome{}, &session.ConfigurationError{Reason: "nil session state"}
	}
	if _, err := st.Get(session.KeyLoggedIn); err != nil {
		return Outcome{}, err
	}
	if !st.LoggedIn {
		return Outcome{}, ErrNotLoggedIn
	}

	s.logger.Debug("dispatching event", zap.String("event", string(ev.Type)), zap.String("outlet", st.Outlet))

	switch ev.Type {
	case EventLookup:
		return s.Lookup(st, ev.Barcode), nil
	case EventSetStaff:
		st.StaffName = strings.TrimSpace(ev.StaffName)
		return Outcome{Kind: OutcomeOK, Level: session.LevelInfo, Message: "Staff name updated."}, nil
	case EventSubmitItem:
		return s.SubmitItem(ctx, st, ev.Item), nil
	case EventRemoveItem:
		return removeItem(st, ev.Index), nil
	case EventClearItems:
		n := len(st.Items)
		if err := st.Reset(session.KeyItems); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeCleared, Level: session.LevelInfo, Message: fmt.Sprintf("Cleared %d item(s) from this session. Saved records are unchanged.", n)}, nil
	case EventSubmitFeedback:
		return s.SubmitFeedback(ctx, st, ev.Feedback), nil
	case EventClearFeedback:
		n := len(st.Feedback)
		if err := st.Reset(session.KeyFeedback); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeCleared, Level: session.LevelInfo, Message: fmt.Sprintf("Cleared %d feedback entr(ies) from this session.", n)}, nil
	case EventSubmitAndClear:
		return submitAndClear(st)
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, ev.Type)
	}
}

// Lookup resolves a barcode against the catalog. It never touches the remote store.
func (s *Service) Lookup(st *session.State, barcode string) Outcome {
	st.ClearLookup()

	if strings.TrimSpace(barcode) == "" {
		return Outcome{Kind: OutcomeCleared, Level: session.LevelInfo, Message: "Barcode cleared."}
	}
	st.Barcode = strings.TrimSpace(barcode)

	var (
		entry models.LookupEntry
		ok    bool
	)
	if s.catalog != nil {
		entry, ok = s.catalog.Find(barcode)
	}
	if !ok {
		st.Found = false
		return Outcome{Kind: OutcomeNotFound, Level: session.LevelWarning, Message: "Barcode not found in catalog. Enter the item details manually."}
	}

	st.SetMatch(entry)
	return Outcome{Kind: OutcomeFound, Level: session.LevelSuccess, Message: fmt.Sprintf("Found %s (%s).", entry.ItemName, entry.Supplier)}
}

// BuildItem validates the form and computes derived fields. The bool is false
// with a rejection reason when validation fails.
func (s *Service) BuildItem(st *session.State, in ItemInput) (models.InventoryRecord, string, bool) {
	barcode := firstNonBlank(in.Barcode, st.Barcode)
	itemName := resolvedItemName(st, in.ItemName)
	staff := firstNonBlank(in.StaffName, st.StaffName)

	switch {
	case barcode == "":
		return models.InventoryRecord{}, "Barcode is required.", false
	case strings.TrimSpace(itemName) == "":
		return models.InventoryRecord{}, "Item name is required.", false
	case staff == "":
		return models.InventoryRecord{}, "Staff name is required.", false
	}

	formType, ok := models.ParseFormType(strings.TrimSpace(in.FormType))
	if !ok {
		return models.InventoryRecord{}, fmt.Sprintf("Unknown form type %q.", in.FormType), false
	}

	qty := coerceQuantity(in.Quantity)
	cost := coerceMoney(in.Cost)
	selling := coerceMoney(in.SellingPrice)

	rec := models.InventoryRecord{
		Timestamp:      s.now(),
		FormType:       formType,
		Barcode:        barcode,
		ItemName:       itemName,
		Quantity:       qty,
		Cost:           cost,
		SellingPrice:   selling,
		Amount:         Amount(cost, qty),
		GrossMarginPct: GrossMargin(cost, selling),
		Supplier:       resolvedSupplier(st, in.Supplier),
		Remarks:        strings.TrimSpace(in.Remarks),
		Outlet:         st.Outlet,
		StaffName:      staff,
	}
	if formType != models.FormDamages {
		rec.ExpiryDate = parseDate(in.ExpiryDate)
	}
	return rec, "", true
}

// SubmitItem validates, appends to the remote store, then commits to the session list.
func (s *Service) SubmitItem(ctx context.Context, st *session.State, in ItemInput) Outcome {
	if !st.Found {
		// Keep typed manual values so a rejected form re-renders with them.
		st.ManualItemName = strings.TrimSpace(in.ItemName)
		st.ManualSupplier = strings.TrimSpace(in.Supplier)
	}

	rec, reason, ok := s.BuildItem(st, in)
	if !ok {
		return Outcome{Kind: OutcomeRejected, Level: session.LevelError, Message: reason}
	}

	if out, failed := s.appendRemote(ctx, s.opts.InventoryStore, rec.Row()); failed {
		s.logger.Warn("inventory append failed", zap.String("barcode", rec.Barcode), zap.Error(out.Err))
		return out
	}

	st.Items = append(st.Items, rec)
	st.StaffName = rec.StaffName
	st.ClearLookup()

	s.logger.Info("inventory item recorded",
		zap.String("outlet", rec.Outlet),
		zap.String("form_type", string(rec.FormType)),
		zap.String("barcode", rec.Barcode),
		zap.Int("quantity", rec.Quantity))

	return Outcome{Kind: OutcomeOK, Level: session.LevelSuccess, Message: fmt.Sprintf("%s saved: %s x%d (amount %s).", rec.FormType, rec.ItemName, rec.Quantity, rec.Amount.StringFixed(2))}
}

// SubmitFeedback validates and records a customer comment.
func (s *Service) SubmitFeedback(ctx context.Context, st *session.State, in FeedbackInput) Outcome {
	name := strings.TrimSpace(in.CustomerName)
	text := strings.TrimSpace(in.Text)
	if name == "" || text == "" {
		return Outcome{Kind: OutcomeRejected, Level: session.LevelError, Message: "Customer name and feedback are both required."}
	}

	rec := models.FeedbackRecord{
		SubmittedAt:  s.now(),
		CustomerName: name,
		Rating:       coerceRating(in.Rating),
		Outlet:       st.Outlet,
		Text:         text,
	}

	out, failed := s.appendRemote(ctx, s.opts.FeedbackStore, rec.Row())
	if failed {
		s.logger.Warn("feedback append failed", zap.Bool("strict", s.opts.StrictFeedbackCommit), zap.Error(out.Err))
		if s.opts.StrictFeedbackCommit {
			return out
		}
		st.Feedback = append(st.Feedback, rec)
		out.Message += " The feedback was kept in this session only."
		return out
	}

	st.Feedback = append(st.Feedback, rec)
	s.logger.Info("feedback recorded", zap.String("outlet", rec.Outlet), zap.Int("rating", rec.Rating))
	return Outcome{Kind: OutcomeOK, Level: session.LevelSuccess, Message: "Thank you! Feedback saved."}
}

func (s *Service) appendRemote(ctx context.Context, storeID string, row models.Row) (Outcome, bool) {
	if s.store == nil {
		err := fmt.Errorf("%w: no store configured", ErrRemoteStore)
		return Outcome{Kind: OutcomeRemoteFailure, Level: session.LevelWarning, Message: "Could not save to the spreadsheet.", Err: err}, true
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	err := s.store.Append(callCtx, storeID, row)
	if err == nil {
		return Outcome{}, false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{
			Kind:      OutcomeRemoteFailure,
			Level:     session.LevelWarning,
			Message:   "The spreadsheet did not respond in time. Please submit again.",
			Err:       fmt.Errorf("%w: %w: %w", ErrRemoteStore, ErrRemoteTimeout, err),
			Retryable: true,
		}, true
	}

	return Outcome{
		Kind:    OutcomeRemoteFailure,
		Level:   session.LevelWarning,
		Message: "Could not save to the spreadsheet.",
		Err:     fmt.Errorf("%w: %w", ErrRemoteStore, err),
	}, true
}

func removeItem(st *session.State, index int) Outcome {
	if index < 0 || index >= len(st.Items) {
		return Outcome{Kind: OutcomeRejected, Level: session.LevelError, Message: "No such item in this session."}
	}
	removed := st.Items[index]
	st.Items = append(st.Items[:index:index], st.Items[index+1:]...)
	return Outcome{Kind: OutcomeOK, Level: session.LevelInfo, Message: fmt.Sprintf("Removed %s from this session. The saved record is unchanged.", removed.ItemName)}
}

func submitAndClear(st *session.State) (Outcome, error) {
	n := len(st.Items) + len(st.Feedback)
	keys := make([]session.Key, 0)
	for _, k := range session.Keys() {
		if k == session.KeyLoggedIn || k == session.KeyOutlet {
			continue
		}
		keys = append(keys, k)
	}
	if err := st.Reset(keys...); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeCleared, Level: session.LevelSuccess, Message: fmt.Sprintf("Submitted %d entr(ies). Ready for the next batch.", n)}, nil
}

// Amount is cost times quantity rounded to two places.
func Amount(cost decimal.Decimal, qty int) decimal.Decimal {
	return cost.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// GrossMargin is (selling-cost)/cost*100 rounded to two places, or 0 when cost is not positive.
func GrossMargin(cost, selling decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return selling.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

// coerceQuantity parses leniently: unparsable or negative input becomes 0.
func coerceQuantity(value string) int {
	v := strings.TrimSpace(value)
	if n, err := strconv.Atoi(v); err == nil {
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f < float64(1<<31) {
		return int(f)
	}
	return 0
}

// coerceMoney parses leniently: unparsable, negative or out-of-range input becomes 0.
// Length and exponent are checked before any comparison, since comparing or
// rounding rescales the coefficient by the exponent.
func coerceMoney(value string) decimal.Decimal {
	v := strings.TrimSpace(value)
	if v == "" || len(v) > maxMoneyInputLen {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxMoneyExponent || exp < minMoneyExponent {
		return decimal.Zero
	}
	if d.GreaterThan(maxMoney) {
		return decimal.Zero
	}
	return d
}

// coerceRating clamps into the selectable range; unparsable input takes the top rating.
func coerceRating(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return models.MaxRating
	}
	return min(max(n, models.MinRating), models.MaxRating)
}

func parseDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	t, err := time.Parse(models.DateInputLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

// resolvedItemName prefers the catalog name, unmodified, after a match.
func resolvedItemName(st *session.State, typed string) string {
	if st.Found && strings.TrimSpace(st.ItemName) != "" {
		return st.ItemName
	}
	return firstNonBlank(typed, st.ManualItemName)
}

func resolvedSupplier(st *session.State, typed string) string {
	if st.Found && strings.TrimSpace(st.Supplier) != "" {
		return st.Supplier
	}
	return firstNonBlank(typed, st.ManualSupplier)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
