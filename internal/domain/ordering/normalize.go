package ordering

import "github.com/shopspring/decimal"

// NormalizedRow is one item of a vendor order reshaped into a rectangular
// table: the item name plus a value for every unioned field, absent fields
// defaulted to zero.
type NormalizedRow struct {
	ItemName string
	Values   map[string]decimal.Decimal
}

// NormalizeOrderItems computes the union of quantity field names across all
// items, preserving first-seen order, then produces one row per item with
// every unioned field filled in (zero where an item does not carry the
// field). Identity fields (ref, name) are never part of the union.
//
// This makes ragged vendor-specific item shapes safe to render as one table,
// whether on screen or in a printed report.
func NormalizeOrderItems(items []OrderItem) (fields []string, rows []NormalizedRow) {
	fields = make([]string, 0)
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, q := range item.Quantities {
			if _, ok := seen[q.Name]; ok {
				continue
			}
			seen[q.Name] = struct{}{}
			fields = append(fields, q.Name)
		}
	}

	rows = make([]NormalizedRow, 0, len(items))
	for _, item := range items {
		values := make(map[string]decimal.Decimal, len(fields))
		for _, field := range fields {
			v, ok := item.Get(field)
			if !ok {
				v = decimal.Zero
			}
			values[field] = v
		}
		rows = append(rows, NormalizedRow{ItemName: item.ItemName, Values: values})
	}

	return fields, rows
}
