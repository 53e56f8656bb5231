package sources

import (
	"context"

	"github.com/xuri/excelize/v2"
)

// Comments reads the free-text comment workbook, keyed by its "Order L-R"
// column, e.g. "123456-1-0". The header sits on the second row. A key gets
// an entry only when at least one of the two comment columns has text.
func (r *Reader) Comments(ctx context.Context, path string) map[string]CommentPair {
	comments := make(map[string]CommentPair)

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		r.logFailure(ctx, KeyComments, path, err)
		return comments
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	if err != nil {
		r.logFailure(ctx, KeyComments, path, err)
		return comments
	}
	if len(rows) < 2 {
		return comments
	}

	header := headerIndex(rows[1])
	keyCol, ok := header["Order L-R"]
	if !ok {
		if r.logg != nil {
			r.logg.Warn(r.logg.WithSource(ctx, KeyComments.String()), "comment workbook missing Order L-R column")
		}
		return comments
	}
	purchasingCol, okPurchasing := header["Purchasing Comments"]
	operationsCol, okOperations := header["Operation's Comments and Action Items"]

	for _, row := range rows[2:] {
		key := excelCell(row, keyCol)
		if key == "" {
			continue
		}
		pair := CommentPair{}
		if okPurchasing {
			pair.Purchasing = excelCell(row, purchasingCol)
		}
		if okOperations {
			pair.Operations = excelCell(row, operationsCol)
		}
		if pair.Present() {
			comments[key] = pair
		}
	}
	return comments
}
