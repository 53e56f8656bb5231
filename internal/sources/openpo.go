package sources

import (
	"context"
	"time"
)

// OpenPOs reads the open purchase-order export and computes the due-date
// facts against the supplied clock, truncated to midnight. Days overdue is
// negative for lines due in the future; the due-soon window is inclusive
// on both ends.
func (r *Reader) OpenPOs(ctx context.Context, path string, now time.Time, dueSoonDays int) []POLine {
	table, err := readCSVTable(path)
	if err != nil {
		r.logFailure(ctx, KeyOpenPO, path, err)
		return nil
	}

	today := midnight(now)
	lines := make([]POLine, 0, len(table.rows))
	for _, row := range table.rows {
		line := POLine{
			PO:          table.cell(row, "PO"),
			Line:        parseInt(table.cell(row, "Line")),
			Supplier:    table.cell(row, "Name"),
			Part:        table.cell(row, "Part Num"),
			Description: table.cell(row, "Description"),
			Qty:         parseDecimal(table.cell(row, "Supplier Qty")),
			DueDate:     parseDate(table.cell(row, "Due Date")),
			PromiseDate: parseDate(table.cell(row, "Promise Date")),
			Job:         table.cell(row, "Job"),
			BuyerID:     table.cell(row, "Buyer ID"),
		}
		if line.DueDate != nil {
			due := midnight(*line.DueDate)
			line.IsOverdue = due.Before(today)
			line.DaysOverdue = daysBetween(due, today)
			line.DaysUntilDue = -line.DaysOverdue
			line.IsDueSoon = line.DaysUntilDue >= 0 && line.DaysUntilDue <= dueSoonDays
		}
		lines = append(lines, line)
	}
	return lines
}
