package ledger

import (
	"testing"
	"time"

	"tradeops/internal/core"
)

func TestBuildStatementFiltersAndBalances(t *testing.T) {
	asOf := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	rows := []core.InvoiceRow{
		row("INV-1", 10000, 0, "A"),
		{
			Date:     core.NewDate(2026, time.January, 12),
			Number:   "OTHER-1",
			Customer: "Beta Srl",
			Debit:    core.Money{Cents: 999},
		},
		row("PAY-1", 0, 4000, "A"),
		row("INV-2", 2500, 0, ""),
	}

	st := BuildStatement("acme", rows, asOf)
	if len(st.Lines) != 3 {
		t.Fatalf("lines = %d, want 3 (other customers filtered)", len(st.Lines))
	}

	wantBalances := []int64{10000, 6000, 8500}
	for i, w := range wantBalances {
		if st.Lines[i].Balance != w {
			t.Fatalf("line %d balance = %d, want %d", i, st.Lines[i].Balance, w)
		}
	}

	if !st.Lines[0].Open || st.Lines[0].Residual != 6000 {
		t.Fatalf("line 0 = %+v, want open residual 6000", st.Lines[0])
	}
	if st.Lines[1].Open {
		t.Fatal("payment row must not be open")
	}
	if !st.Lines[2].Open || st.Lines[2].Residual != 2500 {
		t.Fatalf("line 2 = %+v, want open residual 2500", st.Lines[2])
	}

	if st.NetCents != 8500 {
		t.Fatalf("net = %d, want 8500", st.NetCents)
	}
	if st.OpenCents != 8500 {
		t.Fatalf("open total = %d, want 8500", st.OpenCents)
	}
	if st.Aging.TotalCents != st.OpenCents {
		t.Fatalf("aging total %d must equal open total %d", st.Aging.TotalCents, st.OpenCents)
	}
}

func TestBuildStatementEmptyLedger(t *testing.T) {
	st := BuildStatement("Nobody", nil, time.Now())
	if len(st.Lines) != 0 || st.NetCents != 0 || st.OpenCents != 0 {
		t.Fatalf("empty ledger statement not empty: %+v", st)
	}
}
