package ledger

import (
	"strings"
	"time"

	"tradeops/internal/core"
)

type (
	// StatementLine is one ledger row annotated with its reconciliation
	// state and the running balance up to and including it.
	StatementLine struct {
		Row      core.InvoiceRow
		Balance  int64
		Open     bool
		Residual int64
	}

	// Statement is the reconciled view of one customer's ledger.
	Statement struct {
		Customer  string
		AsOf      time.Time
		Lines     []StatementLine
		NetCents  int64
		OpenCents int64
		Aging     AgingReport
	}
)

// BuildStatement reconciles the customer's rows and derives the running
// balance and aging summary. Rows belonging to other customers are ignored
// so callers may pass the full ledger; matching against the name is
// case-insensitive.
func BuildStatement(customer string, rows []core.InvoiceRow, asOf time.Time) Statement {
	var own []core.InvoiceRow
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Customer), strings.TrimSpace(customer)) {
			own = append(own, r)
		}
	}

	rec := Reconcile(own)

	residuals := make(map[int]int64, len(rec.Open))
	for _, it := range rec.Open {
		residuals[it.Index] = it.Residual
	}

	st := Statement{
		Customer: customer,
		AsOf:     asOf,
		NetCents: rec.NetCents,
		Aging:    Age(rec.Open, asOf),
	}
	var balance int64
	for i, r := range own {
		balance += r.Net()
		line := StatementLine{Row: r, Balance: balance}
		if res, ok := residuals[i]; ok {
			line.Open = true
			line.Residual = res
			st.OpenCents += res
		}
		st.Lines = append(st.Lines, line)
	}
	return st
}
