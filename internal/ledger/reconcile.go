// Package ledger implements the customer-ledger reconciliation engine:
// grouping invoice rows by matching key, deriving the residual of each
// group, and classifying rows into open and settled. Everything here is
// recomputed from the full row set on each request; nothing is persisted.
package ledger

import (
	"strings"

	"tradeops/internal/core"
)

// epsilonCents is the threshold below which a balance counts as settled.
// One cent, the integer rendition of the books' historical 0.01 tolerance.
const epsilonCents = 1

type (
	// OpenItem is a row that still carries a balance: either an unmatched
	// row with a non-zero net, or the residual holder of a matching group.
	OpenItem struct {
		Row core.InvoiceRow
		// Index is the row's position in the input slice.
		Index int
		// Residual is the unsettled balance this row represents. For an
		// unmatched row it equals the row's own net; for a residual holder
		// it is the whole group's net.
		Residual int64
		// Grouped is true when the residual comes from a matching group
		// rather than the row itself.
		Grouped bool
	}

	// Reconciliation is the outcome of classifying a row set.
	Reconciliation struct {
		Open     []OpenItem
		Settled  []core.InvoiceRow
		NetCents int64
	}
)

// Reconcile classifies rows into open and settled items.
//
// Rows sharing a non-empty Matching value form a group. The group's net
// (sum of debit minus credit) is attached as the residual of exactly one
// member: the row with the largest debit, first occurrence winning on exact
// ties. All other group members are settled regardless of their own net.
// When a group nets out within the tolerance, every member is settled.
//
// Output ordering follows the input row order.
func Reconcile(rows []core.InvoiceRow) Reconciliation {
	type group struct {
		total    int64
		holder   int // index into rows
		maxDebit int64
	}

	groups := make(map[string]*group)
	var net int64
	for i, r := range rows {
		net += r.Net()
		key := strings.TrimSpace(r.Matching)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			// First member holds the residual until a strictly larger
			// debit shows up. This covers the all-zero-debit case too.
			groups[key] = &group{total: r.Net(), holder: i, maxDebit: r.Debit.Cents}
			continue
		}
		g.total += r.Net()
		if r.Debit.Cents > g.maxDebit {
			g.maxDebit = r.Debit.Cents
			g.holder = i
		}
	}

	out := Reconciliation{NetCents: net}
	for i, r := range rows {
		key := strings.TrimSpace(r.Matching)
		if key == "" {
			n := r.Net()
			if abs(n) > epsilonCents {
				out.Open = append(out.Open, OpenItem{Row: r, Index: i, Residual: n})
			} else {
				out.Settled = append(out.Settled, r)
			}
			continue
		}
		g := groups[key]
		if g.holder == i && abs(g.total) > epsilonCents {
			out.Open = append(out.Open, OpenItem{Row: r, Index: i, Residual: g.total, Grouped: true})
		} else {
			out.Settled = append(out.Settled, r)
		}
	}
	return out
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
