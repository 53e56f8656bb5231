package sources

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one shippable commitment from the order-lines export.
type OrderLine struct {
	Order       int             `json:"order"`
	Line        int             `json:"line"`
	Release     int             `json:"release"`
	JobNumber   string          `json:"job_number"`
	Part        string          `json:"part"`
	Description string          `json:"description"`
	Customer    string          `json:"customer"`
	OrderQty    decimal.Decimal `json:"order_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	OrderDate   *time.Time      `json:"order_date"`
	NeedBy      *time.Time      `json:"need_by"`
	ShipBy      *time.Time      `json:"ship_by"`
}

// Key renders the natural order-line-release key, e.g. "123456-1-0".
func (o OrderLine) Key() string {
	return fmt.Sprintf("%d-%d-%d", o.Order, o.Line, o.Release)
}

// Operation is one job operation after duplicate labor rows are collapsed.
type Operation struct {
	Job           string          `json:"job"`
	Sequence      int             `json:"sequence"`
	Order         int             `json:"order"`
	Part          string          `json:"part"`
	Description   string          `json:"description"`
	WorkCenter    string          `json:"work_center"`
	Engineered    bool            `json:"engineered"`
	Released      bool            `json:"released"`
	RunQty        decimal.Decimal `json:"run_qty"`
	CompletedQty  decimal.Decimal `json:"completed_qty"`
	EstProdHours  decimal.Decimal `json:"est_prod_hours"`
	EstSetupHours decimal.Decimal `json:"est_setup_hours"`
	LaborHours    decimal.Decimal `json:"labor_hours"`
	HasProduction bool            `json:"has_production"`
	DueDate       *time.Time      `json:"due_date"`
	ShipBy        *time.Time      `json:"ship_by"`
	NeedBy        *time.Time      `json:"need_by"`
}

// JobSummary is the per-job rollup of the shop-orders export.
type JobSummary struct {
	Job          string          `json:"job"`
	Order        int             `json:"order"`
	Part         string          `json:"part"`
	Description  string          `json:"description"`
	Customer     string          `json:"customer"`
	Comment      string          `json:"comment"`
	Engineered   bool            `json:"engineered"`
	Released     bool            `json:"released"`
	RunQty       decimal.Decimal `json:"run_qty"`
	CompletedQty decimal.Decimal `json:"completed_qty"`
	LaborType    string          `json:"labor_type"`
}

// RegistryJob is one row of the supplementary job registry.
type RegistryJob struct {
	Job        string `json:"job"`
	Part       string `json:"part"`
	Engineered bool   `json:"engineered"`
	Released   bool   `json:"released"`
	Closed     bool   `json:"closed"`
}

// LaborTotals aggregates the labor-history export for one job.
type LaborTotals struct {
	LastLaborDate *time.Time      `json:"last_labor_date"`
	TotalHours    decimal.Decimal `json:"total_hours"`
}

// CommentPair carries the two free-text comment columns for one order line.
type CommentPair struct {
	Purchasing string `json:"purchasing"`
	Operations string `json:"operations"`
}

// Present reports whether either comment carries text.
func (c CommentPair) Present() bool {
	return c.Purchasing != "" || c.Operations != ""
}

// ShortageLine is one material requirement from the shortage export.
type ShortageLine struct {
	Job         string          `json:"job"`
	Part        string          `json:"part"`
	Description string          `json:"description"`
	RequiredQty decimal.Decimal `json:"required_qty"`
	IssuedQty   decimal.Decimal `json:"issued_qty"`
}

// Short reports whether more material is required than has been issued.
func (s ShortageLine) Short() bool {
	return s.RequiredQty.GreaterThan(s.IssuedQty)
}

// ShortQty is the unissued remainder, never negative.
func (s ShortageLine) ShortQty() decimal.Decimal {
	if !s.Short() {
		return decimal.Zero
	}
	return s.RequiredQty.Sub(s.IssuedQty)
}

// POLine is one open purchase-order line with due-date facts computed
// against the read-time clock.
type POLine struct {
	PO           string          `json:"po"`
	Line         int             `json:"line"`
	Supplier     string          `json:"supplier"`
	Part         string          `json:"part"`
	Description  string          `json:"description"`
	Qty          decimal.Decimal `json:"qty"`
	DueDate      *time.Time      `json:"due_date"`
	PromiseDate  *time.Time      `json:"promise_date"`
	Job          string          `json:"job"`
	BuyerID      string          `json:"buyer_id"`
	IsOverdue    bool            `json:"is_overdue"`
	DaysOverdue  int             `json:"days_overdue"`
	DaysUntilDue int             `json:"days_until_due"`
	IsDueSoon    bool            `json:"is_due_soon"`
}
