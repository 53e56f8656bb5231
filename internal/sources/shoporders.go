package sources

import "context"

type opKey struct {
	job string
	seq int
}

// ShopOrders reads the shop-orders export and collapses its duplicate
// labor rows twice: once per job+operation and once per job. Completed
// quantity takes the max across duplicates, labor hours sum, and an
// operation has production when any of its rows carries labor type "P".
// Job run quantity sums each operation once, never each raw row.
func (r *Reader) ShopOrders(ctx context.Context, path string) ([]Operation, []JobSummary) {
	table, err := readCSVTable(path)
	if err != nil {
		r.logFailure(ctx, KeyShopOrders, path, err)
		return nil, nil
	}

	var (
		opOrder  []opKey
		ops      = map[opKey]*Operation{}
		jobOrder []string
		jobs     = map[string]*JobSummary{}
	)

	for _, row := range table.rows {
		job := table.cell(row, "Job")
		if job == "" {
			continue
		}

		completed := parseDecimal(table.cell(row, "Qty Completed"))
		laborType := table.cell(row, "Labor Type")

		key := opKey{job: job, seq: parseInt(table.cell(row, "Opr"))}
		op, seen := ops[key]
		if !seen {
			op = &Operation{
				Job:           job,
				Sequence:      key.seq,
				Order:         parseInt(table.cell(row, "Order")),
				Part:          table.cell(row, "Part"),
				Description:   table.cell(row, "Description"),
				WorkCenter:    table.cell(row, "Operation Description"),
				Engineered:    parseBool(table.cell(row, "Engineered")),
				Released:      parseBool(table.cell(row, "Released")),
				RunQty:        parseDecimal(table.cell(row, "Run Qty")),
				EstProdHours:  parseDecimal(table.cell(row, "Est. Prod Hours")),
				EstSetupHours: parseDecimal(table.cell(row, "Est. Setup Hours")),
				DueDate:       parseDate(table.cell(row, "Due Date")),
				ShipBy:        parseDate(table.cell(row, "Ship By")),
				NeedBy:        parseDate(table.cell(row, "Need By")),
			}
			ops[key] = op
			opOrder = append(opOrder, key)
		}
		if completed.GreaterThan(op.CompletedQty) {
			op.CompletedQty = completed
		}
		op.LaborHours = op.LaborHours.Add(parseDecimal(table.cell(row, "Labor Hrs")))
		if laborType == "P" {
			op.HasProduction = true
		}

		summary, seen := jobs[job]
		if !seen {
			summary = &JobSummary{
				Job:        job,
				Order:      parseInt(table.cell(row, "Order")),
				Engineered: parseBool(table.cell(row, "Engineered")),
				Released:   parseBool(table.cell(row, "Released")),
			}
			jobs[job] = summary
			jobOrder = append(jobOrder, job)
		}
		if completed.GreaterThan(summary.CompletedQty) {
			summary.CompletedQty = completed
		}
		// Labor rows often leave job-level columns blank, so the first
		// populated value wins.
		summary.Part = firstNonEmpty(summary.Part, table.cell(row, "Part"))
		summary.Description = firstNonEmpty(summary.Description, table.cell(row, "Description"))
		summary.Customer = firstNonEmpty(summary.Customer, table.cell(row, "Name"))
		summary.Comment = firstNonEmpty(summary.Comment, table.cell(row, "CommentText"))
		summary.LaborType = firstNonEmpty(summary.LaborType, laborType)
	}

	operations := make([]Operation, 0, len(opOrder))
	for _, key := range opOrder {
		operations = append(operations, *ops[key])
	}

	for _, op := range operations {
		jobs[op.Job].RunQty = jobs[op.Job].RunQty.Add(op.RunQty)
	}

	summaries := make([]JobSummary, 0, len(jobOrder))
	for _, job := range jobOrder {
		summaries = append(summaries, *jobs[job])
	}
	return operations, summaries
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
