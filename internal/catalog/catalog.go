package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
)

// ErrMissingColumn indicates the catalog workbook lacks a required header.
var ErrMissingColumn = errors.New("catalog column missing")

// ErrEmptyWorkbook indicates the catalog workbook has no sheets or no header row.
var ErrEmptyWorkbook = errors.New("catalog workbook is empty")

// Catalog is the in-memory barcode lookup table.
type Catalog struct {
	entries []models.LookupEntry
}

// New builds a catalog from already parsed entries.
func New(entries []models.LookupEntry) *Catalog {
	return &Catalog{entries: append([]models.LookupEntry(nil), entries...)}
}

// Len reports the number of catalog lines.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Find returns the first entry whose trimmed barcode equals the trimmed input.
// A nil catalog has no matches.
func (c *Catalog) Find(barcode string) (models.LookupEntry, bool) {
	if c == nil {
		return models.LookupEntry{}, false
	}

	needle := strings.TrimSpace(barcode)
	for _, e := range c.entries {
		if strings.TrimSpace(e.Barcode) == needle {
			return e, true
		}
	}
	return models.LookupEntry{}, false
}

// Loader reads the catalog workbook once per process and caches the result.
type Loader struct {
	path   string
	logger *zap.Logger

	once    sync.Once
	catalog *Catalog
	err     error
}

// NewLoader prepares a cached loader for the workbook at path.
func NewLoader(path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{path: path, logger: logger}
}

// Catalog returns the cached catalog, reading the workbook on first use.
func (l *Loader) Catalog() (*Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = LoadFile(l.path)
		if l.err != nil {
			l.logger.Error("failed to load catalog", zap.String("path", l.path), zap.Error(l.err))
			return
		}
		l.logger.Info("catalog loaded", zap.String("path", l.path), zap.Int("entries", l.catalog.Len()))
	})
	return l.catalog, l.err
}

// LoadFile parses the first worksheet of an .xlsx catalog.
func LoadFile(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	// Raw values keep long numeric barcodes out of scientific notation.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read catalog sheet %s: %w", sheets[0], err)
	}

	return parseRows(rows)
}

func parseRows(rows [][]string) (*Catalog, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	header := rows[0]
	barcodeIdx, err := columnIndex(header, models.CatalogColBarcode)
	if err != nil {
		return nil, err
	}
	nameIdx, err := columnIndex(header, models.CatalogColItemName)
	if err != nil {
		return nil, err
	}
	supplierIdx, err := columnIndex(header, models.CatalogColSupplier)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LookupEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		barcode := cell(row, barcodeIdx)
		if strings.TrimSpace(barcode) == "" {
			continue
		}
		entries = append(entries, models.LookupEntry{
			Barcode:  barcode,
			ItemName: cell(row, nameIdx),
			Supplier: cell(row, supplierIdx),
		})
	}

	return &Catalog{entries: entries}, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
