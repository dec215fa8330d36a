package http

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tradeops/internal/amqp"
	"tradeops/internal/core"
	"tradeops/internal/export"
	"tradeops/internal/ledger"
)

type invoiceRowJSON struct {
	Date     string `json:"date"`
	DueDate  string `json:"due_date,omitempty"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Debit    string `json:"debit"`
	Credit   string `json:"credit"`
	Matching string `json:"matching,omitempty"`
}

func toInvoiceRowJSON(r core.InvoiceRow) invoiceRowJSON {
	return invoiceRowJSON{
		Date:     r.Date.String(),
		DueDate:  r.DueDate.String(),
		Number:   r.Number,
		Customer: r.Customer,
		Debit:    core.FormatCents(r.Debit.Cents),
		Credit:   core.FormatCents(r.Credit.Cents),
		Matching: r.Matching,
	}
}

type customerJSON struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TermsDays int    `json:"terms_days"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]customerJSON, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerJSON{Name: c.Name, Email: c.Email, Phone: c.Phone, TermsDays: c.TermsDays})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListInvoices(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	q := r.URL.Query()
	customer := strings.TrimSpace(q.Get("customer"))
	var month time.Month
	if tok := q.Get("month"); tok != "" {
		m, err := core.ParseMonth(tok)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		month = m
	}

	out := make([]invoiceRowJSON, 0, len(rows))
	for _, row := range rows {
		if customer != "" && !strings.EqualFold(row.Customer, customer) {
			continue
		}
		if month != 0 && row.Date.Month() != month {
			continue
		}
		out = append(out, toInvoiceRowJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}

type appendLedgerRequest struct {
	Date     string `json:"date"`
	DueDate  string `json:"due_date"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Debit    string `json:"debit"`
	Credit   string `json:"credit"`
	Matching string `json:"matching"`
}

func (s *Server) handleAppendLedger(w http.ResponseWriter, r *http.Request) {
	var req appendLedgerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	row, err := buildInvoiceRow(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.store.AppendInvoice(r.Context(), row)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateReports()
	s.publishEvent(r.Context(), amqp.EntityLedger, amqp.ActionAppend, ref, actor(r))

	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

func buildInvoiceRow(req appendLedgerRequest) (core.InvoiceRow, error) {
	date := core.ParseDate(req.Date)
	if date.IsZero() {
		return core.InvoiceRow{}, fmt.Errorf("date %q: %w", req.Date, core.ErrInvalidDate)
	}

	var due core.Date
	if strings.TrimSpace(req.DueDate) != "" {
		due = core.ParseDate(req.DueDate)
		if due.IsZero() {
			return core.InvoiceRow{}, fmt.Errorf("due_date %q: %w", req.DueDate, core.ErrInvalidDate)
		}
	}

	debit, err := parseOptionalAmount(req.Debit)
	if err != nil {
		return core.InvoiceRow{}, fmt.Errorf("debit %q: %w", req.Debit, core.ErrInvalidAmount)
	}
	credit, err := parseOptionalAmount(req.Credit)
	if err != nil {
		return core.InvoiceRow{}, fmt.Errorf("credit %q: %w", req.Credit, core.ErrInvalidAmount)
	}

	row := core.InvoiceRow{
		Date:     date,
		DueDate:  due,
		Number:   strings.TrimSpace(req.Number),
		Customer: strings.TrimSpace(req.Customer),
		Debit:    core.Money{Cents: debit},
		Credit:   core.Money{Cents: credit},
		Matching: strings.TrimSpace(req.Matching),
	}
	if err := row.Validate(); err != nil {
		return core.InvoiceRow{}, err
	}
	return row, nil
}

func parseOptionalAmount(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return core.ParseCents(s)
}

type statementLineJSON struct {
	invoiceRowJSON
	Balance  string `json:"balance"`
	Open     bool   `json:"open"`
	Residual string `json:"residual,omitempty"`
}

type agingJSON struct {
	AsOf    string            `json:"as_of"`
	Buckets map[string]string `json:"buckets"`
	Total   string            `json:"total"`
}

type statementJSON struct {
	Customer  string              `json:"customer"`
	AsOf      string              `json:"as_of"`
	Net       string              `json:"net"`
	OpenTotal string              `json:"open_total"`
	Lines     []statementLineJSON `json:"lines"`
	Aging     agingJSON           `json:"aging"`
}

func toAgingJSON(rep ledger.AgingReport) agingJSON {
	buckets := make(map[string]string, len(rep.Cents))
	for _, b := range ledger.Buckets() {
		buckets[b.String()] = core.FormatCents(rep.Cents[b])
	}
	return agingJSON{
		AsOf:    rep.AsOf.Format("2006-01-02"),
		Buckets: buckets,
		Total:   core.FormatCents(rep.TotalCents),
	}
}

func toStatementJSON(st ledger.Statement) statementJSON {
	lines := make([]statementLineJSON, 0, len(st.Lines))
	for _, l := range st.Lines {
		line := statementLineJSON{
			invoiceRowJSON: toInvoiceRowJSON(l.Row),
			Balance:        core.FormatCents(l.Balance),
			Open:           l.Open,
		}
		if l.Open {
			line.Residual = core.FormatCents(l.Residual)
		}
		lines = append(lines, line)
	}
	return statementJSON{
		Customer:  st.Customer,
		AsOf:      st.AsOf.Format("2006-01-02"),
		Net:       core.FormatCents(st.NetCents),
		OpenTotal: core.FormatCents(st.OpenCents),
		Lines:     lines,
		Aging:     toAgingJSON(st.Aging),
	}
}

func (s *Server) statement(r *http.Request) (ledger.Statement, error) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		return ledger.Statement{}, fmt.Errorf("customer name: %w", core.ErrEmptyCustomer)
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		return ledger.Statement{}, err
	}

	key := fmt.Sprintf("%s|%s", strings.ToLower(name), asOf.Format("2006-01-02"))
	if st, ok := s.statementCache.Get(key); ok {
		return st, nil
	}

	rows, err := s.store.ListInvoices(r.Context())
	if err != nil {
		return ledger.Statement{}, err
	}

	st := ledger.BuildStatement(name, rows, asOf)
	s.statementCache.Set(key, st)
	return st, nil
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	st, err := s.statement(r)
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementJSON(st))
}

func (s *Server) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	st, err := s.statement(r)
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}

	pdf, err := export.StatementPDF(st)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	serveDownload(w, "application/pdf", export.StatementFileName(st, "pdf"), pdf)
}

func (s *Server) handleStatementXLSX(w http.ResponseWriter, r *http.Request) {
	st, err := s.statement(r)
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}

	data, err := export.StatementXLSX(st)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	serveDownload(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.StatementFileName(st, "xlsx"), data)
}

func (s *Server) writeStatementError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errAsOf) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeStoreError(w, r, err)
}

func serveDownload(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	_, _ = w.Write(data)
}

type agingResponse struct {
	AsOf      string             `json:"as_of"`
	Customers []customerAgingRow `json:"customers"`
	Total     agingJSON          `json:"total"`
}

type customerAgingRow struct {
	Customer string    `json:"customer"`
	Aging    agingJSON `json:"aging"`
}

// handleAging builds the company-wide aging report. Customers are aged
// concurrently off a single ledger read.
func (s *Server) handleAging(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := asOf.Format("2006-01-02")
	resp, ok := s.agingCache.Get(key)
	if !ok {
		resp, err = s.buildAging(r, asOf)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.agingCache.Set(key, resp)
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, resp)
	case "pdf":
		reports, order := agingReports(resp)
		pdf, err := export.AgingPDF(asOf, reports, order)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		serveDownload(w, "application/pdf", export.AgingFileName(asOf, "pdf"), pdf)
	case "xlsx":
		reports, order := agingReports(resp)
		data, err := export.AgingXLSX(asOf, reports, order)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		serveDownload(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			export.AgingFileName(asOf, "xlsx"), data)
	default:
		writeError(w, http.StatusBadRequest, "format must be json, pdf or xlsx")
	}
}

func (s *Server) buildAging(r *http.Request, asOf time.Time) (agingResponse, error) {
	g, ctx := errgroup.WithContext(r.Context())

	var (
		rows      []core.InvoiceRow
		customers []core.Customer
	)
	g.Go(func() error {
		var err error
		rows, err = s.store.ListInvoices(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.store.ListCustomers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return agingResponse{}, err
	}

	names := customerNames(customers, rows)

	var mu sync.Mutex
	reports := make(map[string]ledger.AgingReport, len(names))

	ag, _ := errgroup.WithContext(r.Context())
	ag.SetLimit(8)
	for _, name := range names {
		ag.Go(func() error {
			st := ledger.BuildStatement(name, rows, asOf)
			mu.Lock()
			reports[name] = st.Aging
			mu.Unlock()
			return nil
		})
	}
	_ = ag.Wait()

	resp := agingResponse{AsOf: asOf.Format("2006-01-02")}
	var grand ledger.AgingReport
	grand.AsOf = asOf
	for _, name := range names {
		rep := reports[name]
		if rep.TotalCents == 0 {
			continue
		}
		resp.Customers = append(resp.Customers, customerAgingRow{Customer: name, Aging: toAgingJSON(rep)})
		for i, c := range rep.Cents {
			grand.Cents[i] += c
		}
		grand.TotalCents += rep.TotalCents
	}
	resp.Total = toAgingJSON(grand)

	return resp, nil
}

// customerNames unions the directory with names appearing in the
// ledger, sorted for stable output.
func customerNames(customers []core.Customer, rows []core.InvoiceRow) []string {
	seen := make(map[string]string)
	for _, c := range customers {
		seen[strings.ToLower(c.Name)] = c.Name
	}
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.Customer))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = strings.TrimSpace(r.Customer)
		}
	}

	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func agingReports(resp agingResponse) (map[string]ledger.AgingReport, []string) {
	reports := make(map[string]ledger.AgingReport, len(resp.Customers))
	order := make([]string, 0, len(resp.Customers))
	for _, row := range resp.Customers {
		reports[row.Customer] = fromAgingJSON(row.Aging)
		order = append(order, row.Customer)
	}
	return reports, order
}

func fromAgingJSON(a agingJSON) ledger.AgingReport {
	var rep ledger.AgingReport
	if t, err := time.Parse("2006-01-02", a.AsOf); err == nil {
		rep.AsOf = t
	}
	for _, b := range ledger.Buckets() {
		rep.Cents[b] = core.CentsOrZero(a.Buckets[b.String()])
	}
	rep.TotalCents = core.CentsOrZero(a.Total)
	return rep
}
