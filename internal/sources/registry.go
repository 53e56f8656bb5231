package sources

import "context"

// RegistryJobs reads the supplementary job registry. Rows without a job
// id are skipped.
func (r *Reader) RegistryJobs(ctx context.Context, path string) []RegistryJob {
	table, err := readCSVTable(path)
	if err != nil {
		r.logFailure(ctx, KeyJobRegistry, path, err)
		return nil
	}

	jobs := make([]RegistryJob, 0, len(table.rows))
	for _, row := range table.rows {
		job := table.cell(row, "Job")
		if job == "" {
			continue
		}
		jobs = append(jobs, RegistryJob{
			Job:        job,
			Part:       table.cell(row, "Part"),
			Engineered: parseBool(table.cell(row, "Engineered")),
			Released:   parseBool(table.cell(row, "Released")),
			Closed:     parseBool(table.cell(row, "Closed")),
		})
	}
	return jobs
}
