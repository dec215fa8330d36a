package export

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"

	coredom "tradeops/internal/core"
	"tradeops/internal/ledger"
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Vertical).
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		WithBottomMargin(10).
		Build()

	return maroto.New(cfg)
}

func addTitle(m core.Maroto, title, subtitle string) {
	m.AddRow(12,
		text.NewCol(12, title, titleProps()),
	)
	if subtitle != "" {
		m.AddRow(7,
			text.NewCol(12, subtitle, subtitleProps()),
		)
	}
	m.AddRow(3, line.NewCol(12))
	m.AddRow(3)
}

// statementTitle keeps the document heading plain ASCII so it renders the
// same under every PDF font configuration.
func statementTitle(customer string) string {
	return fmt.Sprintf("Customer Statement - %s", customer)
}

// StatementPDF renders a customer statement with its aging summary.
func StatementPDF(st ledger.Statement) ([]byte, error) {
	m := newDocument()

	addTitle(m,
		statementTitle(st.Customer),
		fmt.Sprintf("As of %s", formatDay(st.AsOf)))

	m.AddRow(7,
		text.NewCol(2, "Date", headerCell()),
		text.NewCol(2, "Number", headerCell()),
		text.NewCol(2, "Debit", headerCellRight()),
		text.NewCol(2, "Credit", headerCellRight()),
		text.NewCol(2, "Balance", headerCellRight()),
		text.NewCol(2, "Status", headerCell()),
	)

	for _, l := range st.Lines {
		status := "settled"
		if l.Open {
			status = "open"
		}
		m.AddRow(6,
			text.NewCol(2, formatDate(l.Row.Date), bodyCell()),
			text.NewCol(2, l.Row.Number, bodyCell()),
			text.NewCol(2, formatAmount(l.Row.Debit.Cents), bodyCellRight()),
			text.NewCol(2, formatAmount(l.Row.Credit.Cents), bodyCellRight()),
			text.NewCol(2, formatAmount(l.Balance), bodyCellRight()),
			text.NewCol(2, status, bodyCell()),
		)
	}

	m.AddRow(3, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(6, "Open balance", headerCell()),
		text.NewCol(6, formatAmount(st.OpenCents), headerCellRight()),
	)

	m.AddRow(5)
	addAgingRows(m, st.Aging)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate statement pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// AgingPDF renders the company-wide aging report, one row per customer.
func AgingPDF(asOf time.Time, reports map[string]ledger.AgingReport, order []string) ([]byte, error) {
	m := newDocument()

	addTitle(m, "Receivables Aging", fmt.Sprintf("As of %s", formatDay(asOf)))

	m.AddRow(7,
		text.NewCol(3, "Customer", headerCell()),
		text.NewCol(2, "At date", headerCellRight()),
		text.NewCol(1, "1-30", headerCellRight()),
		text.NewCol(1, "31-60", headerCellRight()),
		text.NewCol(1, "61-90", headerCellRight()),
		text.NewCol(1, "91-120", headerCellRight()),
		text.NewCol(1, "Older", headerCellRight()),
		text.NewCol(2, "Total", headerCellRight()),
	)

	var grand ledger.AgingReport
	for _, name := range order {
		rep, ok := reports[name]
		if !ok {
			continue
		}
		m.AddRow(6,
			text.NewCol(3, name, bodyCell()),
			text.NewCol(2, formatAmount(rep.Cents[ledger.BucketAtDate]), bodyCellRight()),
			text.NewCol(1, formatAmount(rep.Cents[ledger.Bucket1To30]), bodyCellRight()),
			text.NewCol(1, formatAmount(rep.Cents[ledger.Bucket31To60]), bodyCellRight()),
			text.NewCol(1, formatAmount(rep.Cents[ledger.Bucket61To90]), bodyCellRight()),
			text.NewCol(1, formatAmount(rep.Cents[ledger.Bucket91To120]), bodyCellRight()),
			text.NewCol(1, formatAmount(rep.Cents[ledger.BucketOlder]), bodyCellRight()),
			text.NewCol(2, formatAmount(rep.TotalCents), bodyCellRight()),
		)
		for i, c := range rep.Cents {
			grand.Cents[i] += c
		}
		grand.TotalCents += rep.TotalCents
	}

	m.AddRow(3, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(3, "Total", headerCell()),
		text.NewCol(2, formatAmount(grand.Cents[ledger.BucketAtDate]), headerCellRight()),
		text.NewCol(1, formatAmount(grand.Cents[ledger.Bucket1To30]), headerCellRight()),
		text.NewCol(1, formatAmount(grand.Cents[ledger.Bucket31To60]), headerCellRight()),
		text.NewCol(1, formatAmount(grand.Cents[ledger.Bucket61To90]), headerCellRight()),
		text.NewCol(1, formatAmount(grand.Cents[ledger.Bucket91To120]), headerCellRight()),
		text.NewCol(1, formatAmount(grand.Cents[ledger.BucketOlder]), headerCellRight()),
		text.NewCol(2, formatAmount(grand.TotalCents), headerCellRight()),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate aging pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// ReceiptVoucherPDF renders a printable voucher for a cash receipt.
func ReceiptVoucherPDF(r coredom.CashReceipt) ([]byte, error) {
	m := newDocument()

	addTitle(m, "Cash Receipt Voucher", r.Number)

	for _, field := range []struct{ label, value string }{
		{"Received from", r.Customer},
		{"Date", formatDate(r.Date)},
		{"Amount", formatAmount(r.Amount.Cents)},
		{"Method", r.Method},
		{"Memo", r.Memo},
	} {
		value := field.value
		if value == "" {
			value = "-"
		}
		m.AddRow(8,
			col.New(4).Add(text.New(field.label+":", headerText())),
			col.New(8).Add(text.New(value, bodyText())),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate voucher pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addAgingRows(m core.Maroto, rep ledger.AgingReport) {
	m.AddRow(7,
		text.NewCol(12, "Aging", headerText()),
	)
	for _, b := range ledger.Buckets() {
		m.AddRow(6,
			text.NewCol(6, b.String(), bodyCell()),
			text.NewCol(6, formatAmount(rep.Cents[b]), bodyCellRight()),
		)
	}
	m.AddRow(6,
		text.NewCol(6, "Total", headerCell()),
		text.NewCol(6, formatAmount(rep.TotalCents), headerCellRight()),
	)
}
