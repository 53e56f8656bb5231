package sources

import (
	"context"
	"strings"
)

// Column positions in the headerless labor-history export.
const (
	laborColDate  = 1
	laborColHours = 4
	laborColJob   = 5
)

// LaborHistory reads the headerless labor-history export and aggregates
// it per job: last labor date takes the max, hours sum.
func (r *Reader) LaborHistory(ctx context.Context, path string) map[string]LaborTotals {
	records, err := readCSVRecords(path)
	if err != nil {
		r.logFailure(ctx, KeyLaborHistory, path, err)
		return map[string]LaborTotals{}
	}

	totals := make(map[string]LaborTotals)
	for _, row := range records {
		if len(row) <= laborColJob {
			continue
		}
		job := strings.TrimSpace(row[laborColJob])
		if job == "" {
			continue
		}

		entry := totals[job]
		if date := parseDate(row[laborColDate]); date != nil {
			if entry.LastLaborDate == nil || date.After(*entry.LastLaborDate) {
				entry.LastLaborDate = date
			}
		}
		entry.TotalHours = entry.TotalHours.Add(parseDecimal(row[laborColHours]))
		totals[job] = entry
	}
	return totals
}
