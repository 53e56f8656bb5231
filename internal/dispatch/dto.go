package dispatch

import (
	"strings"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
)

// Snapshot is one immutable refresh result. Readers share the reference
// and never mutate it; a new pass swaps in a fresh snapshot instead.
type Snapshot struct {
	Lines       []enrich.Line       `json:"lines"`
	SourceRows  map[sources.Key]int `json:"source_rows"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// ListParams narrow the snapshot lines. Zero values leave a dimension
// unfiltered.
type ListParams struct {
	Status       enums.LineStatus
	ESI          enums.ESIFilter
	Customer     string
	PastDueOnly  bool
	ShortageOnly bool
	CanShipOnly  bool
}

func (p ListParams) match(line enrich.Line) bool {
	if p.Status != "" && line.Status != p.Status {
		return false
	}
	switch p.ESI {
	case enums.ESIFilterOnly:
		if !line.IsESI {
			return false
		}
	case enums.ESIFilterExclude:
		if line.IsESI {
			return false
		}
	}
	if p.Customer != "" && !strings.EqualFold(line.Customer, p.Customer) {
		return false
	}
	if p.PastDueOnly && !line.IsPastDue {
		return false
	}
	if p.ShortageOnly && !line.MaterialShort {
		return false
	}
	if p.CanShipOnly && !line.CanShip {
		return false
	}
	return true
}

// ListResult carries the filtered lines plus the snapshot totals the
// dashboard header shows next to them.
type ListResult struct {
	Lines       []enrich.Line `json:"lines"`
	Matched     int           `json:"matched"`
	Total       int           `json:"total"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

// Stats summarize the current snapshot.
type Stats struct {
	TotalLines    int                      `json:"total_lines"`
	ByStatus      map[enums.LineStatus]int `json:"by_status"`
	PastDue       int                      `json:"past_due"`
	MaterialShort int                      `json:"material_short"`
	CanShip       int                      `json:"can_ship"`
	ESI           int                      `json:"esi"`
	SourceRows    map[sources.Key]int      `json:"source_rows"`
	RefreshedAt   time.Time                `json:"refreshed_at"`
}

// GanttRow is one schedule bar derived from an enriched line.
type GanttRow struct {
	Job       string           `json:"job"`
	Label     string           `json:"label"`
	Part      string           `json:"part"`
	Customer  string           `json:"customer"`
	Group     string           `json:"group"`
	Status    enums.LineStatus `json:"status"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Progress  float64          `json:"progress"`
	IsPastDue bool             `json:"is_past_due"`
}
