package sources

import (
	"context"

	"github.com/shopspring/decimal"
)

// Inventory reads the part-inventory export into a per-part map of
// quantity on hand, taking the max across duplicate part rows.
func (r *Reader) Inventory(ctx context.Context, path string) map[string]decimal.Decimal {
	table, err := readCSVTable(path)
	if err != nil {
		r.logFailure(ctx, KeyPartInventory, path, err)
		return map[string]decimal.Decimal{}
	}

	onHand := make(map[string]decimal.Decimal, len(table.rows))
	for _, row := range table.rows {
		part := table.cell(row, "Part")
		if part == "" {
			continue
		}
		qty := parseDecimal(table.cell(row, "Qty On Hand"))
		if current, ok := onHand[part]; !ok || qty.GreaterThan(current) {
			onHand[part] = qty
		}
	}
	return onHand
}
