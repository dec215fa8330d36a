package ledger

import (
	"testing"
	"time"

	"tradeops/internal/core"
)

func TestBucketForBoundaries(t *testing.T) {
	cases := map[int]Bucket{
		-5:  BucketAtDate,
		0:   BucketAtDate,
		1:   Bucket1To30,
		30:  Bucket1To30,
		31:  Bucket31To60,
		60:  Bucket31To60,
		61:  Bucket61To90,
		90:  Bucket61To90,
		91:  Bucket91To120,
		120: Bucket91To120,
		121: BucketOlder,
		400: BucketOlder,
	}
	for days, want := range cases {
		if got := BucketFor(days); got != want {
			t.Fatalf("BucketFor(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestDaysOverdueUsesDueDateThenDate(t *testing.T) {
	asOf := time.Date(2026, time.March, 31, 15, 0, 0, 0, time.UTC)

	it := OpenItem{Row: core.InvoiceRow{
		Date:    core.NewDate(2026, time.January, 1),
		DueDate: core.NewDate(2026, time.March, 1),
	}}
	if got := it.DaysOverdue(asOf); got != 30 {
		t.Fatalf("DaysOverdue = %d, want 30 (due date)", got)
	}

	it.Row.DueDate = core.Date{}
	if got := it.DaysOverdue(asOf); got != 89 {
		t.Fatalf("DaysOverdue = %d, want 89 (transaction date)", got)
	}

	it.Row.Date = core.Date{}
	if got := it.DaysOverdue(asOf); got != 0 {
		t.Fatalf("DaysOverdue = %d, want 0 when both dates absent", got)
	}
}

func TestAgeAccumulatesBucketsAndTotal(t *testing.T) {
	asOf := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	mk := func(due core.Date, residual int64) OpenItem {
		return OpenItem{Row: core.InvoiceRow{DueDate: due}, Residual: residual}
	}
	items := []OpenItem{
		mk(core.NewDate(2026, time.July, 15), 1000),  // not yet due
		mk(core.NewDate(2026, time.June, 10), 2000),  // 20 days
		mk(core.NewDate(2026, time.May, 11), 3000),   // 50 days
		mk(core.NewDate(2026, time.April, 11), 4000), // 80 days
		mk(core.NewDate(2026, time.March, 2), 5000),  // 120 days
		mk(core.NewDate(2025, time.June, 30), 6000),  // a year
		mk(core.Date{}, 700),                         // no date: at-date
	}
	rep := Age(items, asOf)

	want := map[Bucket]int64{
		BucketAtDate:  1700,
		Bucket1To30:   2000,
		Bucket31To60:  3000,
		Bucket61To90:  4000,
		Bucket91To120: 5000,
		BucketOlder:   6000,
	}
	for b, w := range want {
		if got := rep.Bucket(b); got != w {
			t.Fatalf("bucket %s = %d, want %d", b, got, w)
		}
	}
	if rep.TotalCents != 21700 {
		t.Fatalf("total = %d, want 21700", rep.TotalCents)
	}
}

func TestAgeKeepsCreditResidualSign(t *testing.T) {
	asOf := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	items := []OpenItem{
		{Row: core.InvoiceRow{DueDate: core.NewDate(2026, time.June, 20)}, Residual: 5000},
		{Row: core.InvoiceRow{DueDate: core.NewDate(2026, time.June, 20)}, Residual: -2000},
	}
	rep := Age(items, asOf)
	if rep.Bucket(Bucket1To30) != 3000 {
		t.Fatalf("bucket = %d, want signed sum 3000", rep.Bucket(Bucket1To30))
	}
	if rep.TotalCents != 3000 {
		t.Fatalf("total = %d, want 3000", rep.TotalCents)
	}
}
