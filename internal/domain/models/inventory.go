package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormType enumerates the kinds of inventory entries staff can record.
type FormType string

const (
	FormExpiry     FormType = "Expiry"
	FormDamages    FormType = "Damages"
	FormNearExpiry FormType = "Near Expiry"
)

// FormTypes lists the selectable form types in display order.
var FormTypes = []FormType{FormExpiry, FormDamages, FormNearExpiry}

// ParseFormType resolves a submitted form type value.
func ParseFormType(value string) (FormType, bool) {
	for _, ft := range FormTypes {
		if string(ft) == value {
			return ft, true
		}
	}
	return "", false
}

const (
	// ExpiryDisplayLayout renders dates as day-abbreviated month-two digit year, e.g. 05-Mar-25.
	ExpiryDisplayLayout = "02-Jan-06"
	// TimestampLayout is used for the record timestamp column.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateInputLayout is the layout produced by HTML date inputs.
	DateInputLayout = "2006-01-02"
)

// Inventory worksheet columns.
const (
	ColTimestamp    = "Timestamp"
	ColFormType     = "Form Type"
	ColBarcode      = "Barcode"
	ColItemName     = "Item Name"
	ColQuantity     = "Quantity"
	ColCost         = "Cost"
	ColSellingPrice = "Selling Price"
	ColAmount       = "Amount"
	ColGrossMargin  = "GP %"
	ColExpiryDate   = "Expiry Date"
	ColSupplier     = "Supplier"
	ColRemarks      = "Remarks"
	ColOutlet       = "Outlet"
	ColStaffName    = "Staff Name"
)

// InventoryColumns is the fixed header row of the inventory store.
var InventoryColumns = []string{
	ColTimestamp, ColFormType, ColBarcode, ColItemName, ColQuantity, ColCost, ColSellingPrice,
	ColAmount, ColGrossMargin, ColExpiryDate, ColSupplier, ColRemarks, ColOutlet, ColStaffName,
}

// InventoryRecord captures one expiring, near-expiry or damaged item.
type InventoryRecord struct {
	Timestamp      time.Time
	FormType       FormType
	Barcode        string
	ItemName       string
	Quantity       int
	Cost           decimal.Decimal
	SellingPrice   decimal.Decimal
	Amount         decimal.Decimal
	GrossMarginPct decimal.Decimal
	ExpiryDate     *time.Time
	Supplier       string
	Remarks        string
	Outlet         string
	StaffName      string
}

// ExpiryDisplay formats the expiry date, or returns "" for damages and undated entries.
func (r InventoryRecord) ExpiryDisplay() string {
	if r.FormType == FormDamages || r.ExpiryDate == nil {
		return ""
	}
	return r.ExpiryDate.Format(ExpiryDisplayLayout)
}

// Row renders the record in InventoryColumns order.
func (r InventoryRecord) Row() Row {
	return Row{
		{ColTimestamp, r.Timestamp.Format(TimestampLayout)},
		{ColFormType, string(r.FormType)},
		{ColBarcode, r.Barcode},
		{ColItemName, r.ItemName},
		{ColQuantity, r.Quantity},
		{ColCost, r.Cost.StringFixed(2)},
		{ColSellingPrice, r.SellingPrice.StringFixed(2)},
		{ColAmount, r.Amount.StringFixed(2)},
		{ColGrossMargin, r.GrossMarginPct.StringFixed(2)},
		{ColExpiryDate, r.ExpiryDisplay()},
		{ColSupplier, r.Supplier},
		{ColRemarks, r.Remarks},
		{ColOutlet, r.Outlet},
		{ColStaffName, r.StaffName},
	}
}
