package enrich

import (
	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/sources"
)

// JobDetail is the merged per-job view consumed by the enrichment pass:
// shop-order rollups are primary, registry rows fill jobs the shop source
// never mentions.
type JobDetail struct {
	Job           string          `json:"job"`
	Part          string          `json:"part"`
	Description   string          `json:"description"`
	Customer      string          `json:"customer"`
	Comment       string          `json:"comment"`
	LaborType     string          `json:"labor_type"`
	Engineered    bool            `json:"engineered"`
	Released      bool            `json:"released"`
	RunQty        decimal.Decimal `json:"run_qty"`
	CompletedQty  decimal.Decimal `json:"completed_qty"`
	HasProduction bool            `json:"has_production"`
}

// CombineJobDetails merges shop-order job summaries with registry jobs.
// A registry job already covered by the shop source is ignored; one that
// is not gets a detail row with zero quantities and no comment. Operations
// contribute only the has-production signal.
func CombineJobDetails(jobs []sources.JobSummary, registry []sources.RegistryJob, ops []sources.Operation) map[string]JobDetail {
	details := make(map[string]JobDetail, len(jobs)+len(registry))
	for _, job := range jobs {
		details[job.Job] = JobDetail{
			Job:          job.Job,
			Part:         job.Part,
			Description:  job.Description,
			Customer:     job.Customer,
			Comment:      job.Comment,
			LaborType:    job.LaborType,
			Engineered:   job.Engineered,
			Released:     job.Released,
			RunQty:       job.RunQty,
			CompletedQty: job.CompletedQty,
		}
	}
	for _, job := range registry {
		if _, ok := details[job.Job]; ok {
			continue
		}
		details[job.Job] = JobDetail{
			Job:        job.Job,
			Part:       job.Part,
			Engineered: job.Engineered,
			Released:   job.Released,
		}
	}
	for _, op := range ops {
		if !op.HasProduction {
			continue
		}
		if detail, ok := details[op.Job]; ok {
			detail.HasProduction = true
			details[op.Job] = detail
		}
	}
	return details
}
