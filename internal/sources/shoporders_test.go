package sources

import (
	"context"
	"testing"
)

const shopOrdersCSV = `Job,Opr,Operation Description,Order,Line,Release,Part,Description,Engineered,Released,Run Qty,Qty Completed,Est. Prod Hours,Est. Setup Hours,Labor Hrs,Labor Type,Name,CommentText,Due Date,Need By,Ship By
12345,10,Vertical Mill,678,1,0,PN-1,Widget,True,True,50,10,2.5,1,3,S,Acme Aero,rush job,01/10/2025,01/20/2025,01/15/2025
12345,10,Vertical Mill,678,1,0,PN-1,Widget,True,True,50,25,2.5,1,4,P,Acme Aero,rush job,01/10/2025,01/20/2025,01/15/2025
12345,20,INSPECTION,678,1,0,PN-1,Widget,True,True,50,0,1,0.5,0,,Acme Aero,rush job,01/12/2025,01/20/2025,01/15/2025
67890,10,Lathe,0,2,0,PN-2,Gear,False,False,20,0,1,1,0,,,,,,
,10,Deburr,1,1,0,PN-3,Pin,True,True,5,0,0,0,0,,,,,,
`

func TestReader_ShopOrdersAggregation(t *testing.T) {
	path := writeFixture(t, "shop_orders.csv", shopOrdersCSV)
	ops, jobs := newTestReader().ShopOrders(context.Background(), path)

	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}

	milling := ops[0]
	if milling.Job != "12345" || milling.Sequence != 10 {
		t.Fatalf("unexpected first operation %+v", milling)
	}
	if milling.CompletedQty.String() != "25" {
		t.Fatalf("expected max completed 25, got %s", milling.CompletedQty)
	}
	if milling.LaborHours.String() != "7" {
		t.Fatalf("expected summed labor hours 7, got %s", milling.LaborHours)
	}
	if !milling.HasProduction {
		t.Fatal("expected production labor flag on duplicate row with type P")
	}
	if milling.WorkCenter != "Vertical Mill" {
		t.Fatalf("unexpected work center %q", milling.WorkCenter)
	}

	inspection := ops[1]
	if inspection.Sequence != 20 || inspection.HasProduction {
		t.Fatalf("unexpected inspection op %+v", inspection)
	}

	if len(jobs) != 2 {
		t.Fatalf("expected 2 job summaries, got %d", len(jobs))
	}

	first := jobs[0]
	if first.Job != "12345" {
		t.Fatalf("unexpected job order, got %q first", first.Job)
	}
	if first.RunQty.String() != "100" {
		t.Fatalf("expected run qty summed per operation (100), got %s", first.RunQty)
	}
	if first.CompletedQty.String() != "25" {
		t.Fatalf("expected job completed 25, got %s", first.CompletedQty)
	}
	if first.LaborType != "S" {
		t.Fatalf("expected first observed labor type S, got %q", first.LaborType)
	}
	if first.Customer != "Acme Aero" || first.Comment != "rush job" {
		t.Fatalf("unexpected job fields %+v", first)
	}

	stock := jobs[1]
	if stock.Job != "67890" || stock.Order != 0 {
		t.Fatalf("unexpected stock job %+v", stock)
	}
	if stock.Engineered || stock.Released {
		t.Fatal("expected unengineered stock job")
	}
}

func TestReader_ShopOrdersLaborTypeFromLaterRow(t *testing.T) {
	csv := `Job,Opr,Order,Run Qty,Qty Completed,Labor Hrs,Labor Type
111,10,5,10,0,0,
111,10,5,10,2,1,P
`
	path := writeFixture(t, "shop_orders.csv", csv)
	_, jobs := newTestReader().ShopOrders(context.Background(), path)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].LaborType != "P" {
		t.Fatalf("expected labor type from first populated row, got %q", jobs[0].LaborType)
	}
}
