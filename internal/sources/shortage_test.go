package sources

import (
	"context"
	"testing"
)

const shortageXML = `<?xml version="1.0" encoding="utf-8"?>
<ReportData>
  <Results>
    <JobMtl_JobNum>12345</JobMtl_JobNum>
    <JobMtl_RequiredQty>10</JobMtl_RequiredQty>
    <JobMtl_IssuedQty>4</JobMtl_IssuedQty>
    <JobMtl_PartNum>PN-900</JobMtl_PartNum>
    <Part_PartDescription>Steel Bracket</Part_PartDescription>
  </Results>
  <Details>
    <Results>
      <JobMtl_JobNum>67890</JobMtl_JobNum>
      <JobMtl_RequiredQty>5</JobMtl_RequiredQty>
      <JobMtl_IssuedQty>5</JobMtl_IssuedQty>
    </Results>
  </Details>
  <Results>
    <JobMtl_JobNum></JobMtl_JobNum>
    <JobMtl_RequiredQty>2</JobMtl_RequiredQty>
  </Results>
</ReportData>
`

func TestReader_Shortages(t *testing.T) {
	path := writeFixture(t, "shortage.xml", shortageXML)
	lines := newTestReader().Shortages(context.Background(), path)

	if len(lines) != 2 {
		t.Fatalf("expected 2 shortage lines, got %d", len(lines))
	}

	short := lines[0]
	if short.Job != "12345" || short.Part != "PN-900" || short.Description != "Steel Bracket" {
		t.Fatalf("unexpected line %+v", short)
	}
	if !short.Short() || short.ShortQty().String() != "6" {
		t.Fatalf("expected 6 short, got %s", short.ShortQty())
	}

	covered := lines[1]
	if covered.Part != "Unknown" {
		t.Fatalf("expected Unknown part fallback, got %q", covered.Part)
	}
	if covered.Short() || !covered.ShortQty().IsZero() {
		t.Fatalf("fully issued line must not be short: %+v", covered)
	}

	jobs := ShortJobs(lines)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 short job, got %d", len(jobs))
	}
	if _, ok := jobs["12345"]; !ok {
		t.Fatal("expected job 12345 in short set")
	}
}

func TestReader_ShortagesMalformedXML(t *testing.T) {
	path := writeFixture(t, "shortage.xml", "<ReportData><Results><JobMtl_JobNum>1")
	lines := newTestReader().Shortages(context.Background(), path)
	if len(lines) != 0 {
		t.Fatalf("expected empty table on malformed xml, got %d", len(lines))
	}
}
