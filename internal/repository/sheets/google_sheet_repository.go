package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

const valueInputRaw = "RAW"

// GoogleSheetRepository stores each remote store as one worksheet whose first
// row is the header.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Extra client options replace the credentials file, e.g. to point at a test endpoint.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// Append writes the header when the worksheet is empty, verifies it otherwise,
// then appends the row values.
func (r *GoogleSheetRepository) Append(ctx context.Context, storeID string, row models.Row) error {
	if storeID == "" {
		return repository.ErrEmptyStoreID
	}

	header, err := r.ReadRange(ctx, headerRange(storeID))
	if err != nil {
		return err
	}

	if len(header) == 0 || len(header[0]) == 0 {
		if err := r.writeHeader(ctx, storeID, row.Columns()); err != nil {
			return err
		}
	} else if err := repository.CheckHeader(toStrings(header[0]), row); err != nil {
		return fmt.Errorf("worksheet %s: %w", storeID, err)
	}

	return r.WriteRow(ctx, quoteSheet(storeID), row.Values())
}

// ReadAll fetches the whole worksheet. The first row becomes the table header.
func (r *GoogleSheetRepository) ReadAll(ctx context.Context, storeID string) (models.Table, error) {
	if storeID == "" {
		return models.Table{}, repository.ErrEmptyStoreID
	}

	values, err := r.ReadRange(ctx, quoteSheet(storeID))
	if err != nil {
		return models.Table{}, err
	}
	if len(values) == 0 {
		return models.Table{}, nil
	}

	table := models.Table{Columns: toStrings(values[0]), Rows: make([][]string, 0, len(values)-1)}
	for _, v := range values[1:] {
		table.Rows = append(table.Rows, toStrings(v))
	}
	return table, nil
}

// WriteRow appends the values verbatim. RAW input keeps leading zeros and
// never evaluates text as a formula.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

func (r *GoogleSheetRepository) writeHeader(ctx context.Context, storeID string, columns []string) error {
	cells := make([]interface{}, len(columns))
	for i, c := range columns {
		cells[i] = c
	}

	rng := quoteSheet(storeID) + "!A1"
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}
	if _, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, rng, payload).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("write header into %s: %w", rng, err)
	}

	r.logger.Info("header row written", zap.String("worksheet", storeID), zap.Int("columns", len(columns)))
	return nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func headerRange(storeID string) string {
	return quoteSheet(storeID) + "!1:1"
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = repository.CellString(v)
	}
	return out
}
