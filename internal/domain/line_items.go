package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// InvoiceItem is one line of an invoice
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineTotal returns quantity × price rounded to cents
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Recalculate overwrites every line total and returns the order total
func (items PurchaseOrderItems) Recalculate() decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		items[i].Total = LineTotal(items[i].Quantity, items[i].UnitPrice)
		sum = sum.Add(items[i].Total)
	}
	return sum
}

// Recalculate overwrites every line amount and returns the subtotal
func (items InvoiceItems) Recalculate() decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		items[i].Amount = LineTotal(items[i].Quantity, items[i].Rate)
		sum = sum.Add(items[i].Amount)
	}
	return sum
}

// InvoiceTotals computes subtotal and total (subtotal + tax) for a set of items
func InvoiceTotals(items InvoiceItems, tax decimal.Decimal) (amount, total decimal.Decimal) {
	amount = items.Recalculate()
	return amount, amount.Add(tax.Round(2))
}

// PurchaseOrderItems is stored as a JSON array column
type PurchaseOrderItems []PurchaseOrderItem

// InvoiceItems is stored as a JSON array column
type InvoiceItems []InvoiceItem

// IDList is a JSON array of entity ids (task dependencies). Ids are not integrity checked.
type IDList []uint

// JSONMap is a free-form JSON object column
type JSONMap map[string]interface{}

func (items PurchaseOrderItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return jsonValue(items)
}

func (items *PurchaseOrderItems) Scan(value interface{}) error {
	return scanJSON(value, items)
}

func (items InvoiceItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return jsonValue(items)
}

func (items *InvoiceItems) Scan(value interface{}) error {
	return scanJSON(value, items)
}

func (ids IDList) Value() (driver.Value, error) {
	if ids == nil {
		return "[]", nil
	}
	return jsonValue(ids)
}

func (ids *IDList) Scan(value interface{}) error {
	return scanJSON(value, ids)
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonValue(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(value interface{}, target interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
