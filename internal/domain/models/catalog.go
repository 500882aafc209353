package models

// Catalog file columns that must be present.
const (
	CatalogColBarcode  = "Item Bar Code"
	CatalogColItemName = "Item Name"
	CatalogColSupplier = "LP Supplier"
)

// LookupEntry is one catalog line keyed by barcode.
type LookupEntry struct {
	Barcode  string
	ItemName string
	Supplier string
}
