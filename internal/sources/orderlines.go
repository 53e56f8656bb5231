package sources

import "context"

// OrderLines reads the order-lines export. The release column is exported
// as "Rel" and the ordered quantity as "Selling Requested Qty".
func (r *Reader) OrderLines(ctx context.Context, path string) []OrderLine {
	table, err := readCSVTable(path)
	if err != nil {
		r.logFailure(ctx, KeyOrderLines, path, err)
		return nil
	}

	lines := make([]OrderLine, 0, len(table.rows))
	for _, row := range table.rows {
		lines = append(lines, OrderLine{
			Order:       parseInt(table.cell(row, "Order")),
			Line:        parseInt(table.cell(row, "Line")),
			Release:     parseInt(table.cell(row, "Rel")),
			JobNumber:   table.cell(row, "Job Number"),
			Part:        table.cell(row, "Part"),
			Description: table.cell(row, "Part Description"),
			Customer:    table.cell(row, "Name"),
			OrderQty:    parseDecimal(table.cell(row, "Selling Requested Qty")),
			UnitPrice:   parseDecimal(table.cell(row, "Unit Price")),
			OrderDate:   parseDate(table.cell(row, "Order Date")),
			NeedBy:      parseDate(table.cell(row, "Need By")),
			ShipBy:      parseDate(table.cell(row, "Ship By")),
		})
	}
	return lines
}
