package sources

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"
)

const customersSheet = "History MED"

// ESICustomers reads the customer-classification workbook and returns the
// set of trimmed customer names whose business code is MED. The sheet
// keeps its header on the second row.
func (r *Reader) ESICustomers(ctx context.Context, path string) map[string]struct{} {
	customers := make(map[string]struct{})

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		r.logFailure(ctx, KeyCustomers, path, err)
		return customers
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(customersSheet)
	if err != nil {
		r.logFailure(ctx, KeyCustomers, path, err)
		return customers
	}
	if len(rows) < 2 {
		return customers
	}

	header := headerIndex(rows[1])
	businessCol, okBusiness := header["Business"]
	customerCol, okCustomer := header["Customer"]
	if !okBusiness || !okCustomer {
		return customers
	}

	for _, row := range rows[2:] {
		if excelCell(row, businessCol) != "MED" {
			continue
		}
		if name := excelCell(row, customerCol); name != "" {
			customers[name] = struct{}{}
		}
	}
	return customers
}

// headerIndex maps trimmed header names to column positions.
func headerIndex(row []string) map[string]int {
	index := make(map[string]int, len(row))
	for i, name := range row {
		index[strings.TrimSpace(name)] = i
	}
	return index
}

// excelCell returns the trimmed cell value; excelize drops trailing empty
// cells so short rows are expected.
func excelCell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
