// Package resolve maps order lines to authoritative job ids using the
// fallback chain the dispatch sheet relies on: nominal reference, then
// order lookup, then stock-job-by-part lookup.
package resolve

import (
	"regexp"

	"github.com/morelandmachine/dispatch-backend/internal/sources"
)

// NoJob marks an order line no chain stage could resolve.
const NoJob = "No Job"

// Indexes are the lookup tables behind the resolution chain, built once
// per refresh pass.
type Indexes struct {
	known       map[string]struct{}
	jobByOrder  map[int]string
	stockByPart map[string]string
}

// BuildIndexes derives the known-job set and both lookup tables from the
// two job sources. Shop-orders entries win over registry entries; within a
// source the first job seen for a part or order sticks. Only jobs whose id
// matches stockPattern participate in the order lookup.
func BuildIndexes(jobs []sources.JobSummary, registry []sources.RegistryJob, stockPattern *regexp.Regexp) *Indexes {
	ix := &Indexes{
		known:       make(map[string]struct{}, len(jobs)+len(registry)),
		jobByOrder:  map[int]string{},
		stockByPart: map[string]string{},
	}

	for _, job := range jobs {
		ix.known[job.Job] = struct{}{}
		if job.Order == 0 && job.Part != "" {
			if _, ok := ix.stockByPart[job.Part]; !ok {
				ix.stockByPart[job.Part] = job.Job
			}
		}
		if job.Order > 0 && stockPattern != nil && stockPattern.MatchString(job.Job) {
			if _, ok := ix.jobByOrder[job.Order]; !ok {
				ix.jobByOrder[job.Order] = job.Job
			}
		}
	}

	// Registry jobs fill only the parts the shop source left unmapped.
	for _, job := range registry {
		ix.known[job.Job] = struct{}{}
		if job.Part == "" {
			continue
		}
		if _, ok := ix.stockByPart[job.Part]; !ok {
			ix.stockByPart[job.Part] = job.Job
		}
	}
	return ix
}

// Resolve runs the chain for one order line, first match wins. An empty
// result never happens; unresolvable lines get the NoJob sentinel.
func (ix *Indexes) Resolve(nominal string, order int, part string) string {
	if nominal != "" {
		if _, ok := ix.known[nominal]; ok {
			return nominal
		}
	}
	if job, ok := ix.jobByOrder[order]; ok {
		return job
	}
	if job, ok := ix.stockByPart[part]; ok {
		return job
	}
	return NoJob
}

// Resolved reports whether job names a real job rather than the sentinel.
func Resolved(job string) bool {
	return job != "" && job != NoJob
}
