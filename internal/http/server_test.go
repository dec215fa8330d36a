package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradeops/internal/amqp"
	"tradeops/internal/sheets/memory"
)

type fakePublisher struct {
	events []*amqp.ChangeEvent
}

func (f *fakePublisher) PublishChangeEvent(_ context.Context, e *amqp.ChangeEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s := NewServer(":0", memory.NewSeeded(), opts...)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestListCustomers(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/customers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var customers []customerJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &customers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}
	if customers[0].Name != "Acme Trading" || customers[0].TermsDays != 30 {
		t.Fatalf("first customer = %+v", customers[0])
	}
}

func TestStatement(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/customers/Acme%20Trading/statement?as_of=2026-04-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var st statementJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Seed: 1250.00 invoice partially paid by 500.00 in group M-1001
	if st.OpenTotal != "750.00" {
		t.Errorf("open_total = %q, want 750.00", st.OpenTotal)
	}
	if len(st.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(st.Lines))
	}
	if !st.Lines[0].Open || st.Lines[0].Residual != "750.00" {
		t.Errorf("invoice line = %+v, want open with residual 750.00", st.Lines[0])
	}
	if st.Lines[1].Open {
		t.Errorf("payment line should not hold the residual: %+v", st.Lines[1])
	}
	if st.Aging.Total != "750.00" {
		t.Errorf("aging total = %q, want 750.00", st.Aging.Total)
	}
	// Due 2026-02-09, as-of 2026-04-01: 51 days overdue
	if st.Aging.Buckets["31-60"] != "750.00" {
		t.Errorf("buckets = %v, want 750.00 in 31-60", st.Aging.Buckets)
	}
}

func TestStatement_BadAsOf(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/customers/Acme%20Trading/statement?as_of=April", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatementPDFDownload(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/customers/Acme%20Trading/statement/pdf?as_of=2026-04-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body does not look like a PDF")
	}
}

func TestAging(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/aging?as_of=2026-04-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp agingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Customers) != 2 {
		t.Fatalf("got %d customers with open balances, want 2", len(resp.Customers))
	}
	// Acme 750.00 + Beta 780.00
	if resp.Total.Total != "1530.00" {
		t.Errorf("grand total = %q, want 1530.00", resp.Total.Total)
	}
}

func TestAppendLedger(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestServer(t, WithEventPublisher(pub))

	body := `{"date":"2026-04-02","number":"INV-2000","customer":"Beta Srl","debit":"150,00"}`
	rec := doRequest(t, s, http.MethodPost, "/api/ledger", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	if pub.events[0].Entity != amqp.EntityLedger || pub.events[0].Action != amqp.ActionAppend {
		t.Errorf("event = %+v", pub.events[0])
	}

	list := doRequest(t, s, http.MethodGet, "/api/ledger?customer=Beta%20Srl", "")
	var rows []invoiceRowJSON
	if err := json.Unmarshal(list.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d Beta rows, want 2", len(rows))
	}
	if rows[1].Debit != "150.00" {
		t.Errorf("appended debit = %q, want 150.00", rows[1].Debit)
	}
}

func TestListLedger_MonthFilter(t *testing.T) {
	s := newTestServer(t)

	list := doRequest(t, s, http.MethodGet, "/api/ledger?month=feb", "")
	if list.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", list.Code, list.Body)
	}
	var rows []invoiceRowJSON
	if err := json.Unmarshal(list.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].Number != "PAY-2001" {
		t.Fatalf("rows = %+v, want only the February payment", rows)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/ledger?month=smarch", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad month token status = %d, want 400", rec.Code)
	}
}

func TestAppendLedger_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown field", `{"datum":"2026-01-01"}`, http.StatusBadRequest},
		{"missing customer", `{"date":"2026-01-01","number":"X","debit":"10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"soon","number":"X","customer":"Acme","debit":"10"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"date":"2026-01-01","number":"X","customer":"Acme","debit":"ten"}`, http.StatusUnprocessableEntity},
		{"both sides", `{"date":"2026-01-01","number":"X","customer":"Acme","debit":"10","credit":"5"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/ledger", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestStatementCacheInvalidatedByWrite(t *testing.T) {
	s := newTestServer(t)

	before := doRequest(t, s, http.MethodGet, "/api/customers/Beta%20Srl/statement?as_of=2026-05-01", "")
	var st statementJSON
	if err := json.Unmarshal(before.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Lines) != 1 {
		t.Fatalf("got %d lines before write, want 1", len(st.Lines))
	}

	body := `{"date":"2026-04-20","number":"PAY-3000","customer":"Beta Srl","credit":"780.00"}`
	if rec := doRequest(t, s, http.MethodPost, "/api/ledger", body); rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d", rec.Code)
	}

	after := doRequest(t, s, http.MethodGet, "/api/customers/Beta%20Srl/statement?as_of=2026-05-01", "")
	if err := json.Unmarshal(after.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Lines) != 2 {
		t.Fatalf("got %d lines after write, want 2", len(st.Lines))
	}
}

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	reorder := doRequest(t, s, http.MethodGet, "/api/inventory/reorder", "")
	var items []inventoryItemJSON
	if err := json.Unmarshal(reorder.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].SKU != "SKU-100" {
		t.Fatalf("reorder list = %+v, want only SKU-100", items)
	}

	adj := doRequest(t, s, http.MethodPost, "/api/inventory/SKU-100/adjust", `{"delta":-10}`)
	if adj.Code != http.StatusOK {
		t.Fatalf("adjust status = %d, body = %s", adj.Code, adj.Body)
	}
	var item inventoryItemJSON
	if err := json.Unmarshal(adj.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Quantity != 30 {
		t.Errorf("quantity = %d, want 30", item.Quantity)
	}

	if rec := doRequest(t, s, http.MethodPost, "/api/inventory/SKU-100/adjust", `{"delta":-1000}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative stock status = %d, want 422", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/inventory/SKU-404/adjust", `{"delta":1}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown sku status = %d, want 404", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/inventory/SKU-100/adjust", `{"delta":0}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero delta status = %d, want 422", rec.Code)
	}
}

func TestPayrollEndpoints(t *testing.T) {
	s := newTestServer(t)

	body := `{"date":"2026-03-03","employee":"Rossi","hours":8,"overtime_hours":2,"hourly_rate":"12.50"}`
	if rec := doRequest(t, s, http.MethodPost, "/api/payroll", body); rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d, body = %s", rec.Code, rec.Body)
	}

	rec := doRequest(t, s, http.MethodGet, "/api/payroll?year=2026&month=march", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Month         int                `json:"month"`
		Entries       []payrollEntryJSON `json:"entries"`
		TotalOvertime float64            `json:"total_overtime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Month != 3 || len(resp.Entries) != 1 || resp.TotalOvertime != 2 {
		t.Fatalf("resp = %+v", resp)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/payroll?month=smarch", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad month status = %d, want 422", rec.Code)
	}
}

func TestReceiptsAndVoucher(t *testing.T) {
	s := newTestServer(t)

	body := `{"date":"2026-03-05","number":"RCV-1","customer":"Acme Trading","amount":"250.00","method":"cash"}`
	if rec := doRequest(t, s, http.MethodPost, "/api/receipts", body); rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d, body = %s", rec.Code, rec.Body)
	}

	voucher := doRequest(t, s, http.MethodGet, "/api/receipts/RCV-1/pdf", "")
	if voucher.Code != http.StatusOK {
		t.Fatalf("voucher status = %d", voucher.Code)
	}
	if !strings.HasPrefix(voucher.Body.String(), "%PDF") {
		t.Error("voucher is not a PDF")
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/receipts/RCV-404/pdf", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing receipt status = %d, want 404", rec.Code)
	}
}

func TestNotesLifecycle(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestServer(t, WithEventPublisher(pub))

	body := `{"date":"2026-06-01","due_date":"2026-09-01","number":"N-1","customer":"Acme Trading","amount":"500.00","kind":"receivable"}`
	if rec := doRequest(t, s, http.MethodPost, "/api/notes", body); rec.Code != http.StatusCreated {
		t.Fatalf("append status = %d, body = %s", rec.Code, rec.Body)
	}

	if rec := doRequest(t, s, http.MethodPost, "/api/notes/N-1/settle", ""); rec.Code != http.StatusOK {
		t.Fatalf("settle status = %d, body = %s", rec.Code, rec.Body)
	}

	list := doRequest(t, s, http.MethodGet, "/api/notes?status=settled", "")
	var notes []noteJSON
	if err := json.Unmarshal(list.Body.Bytes(), &notes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notes) != 1 || notes[0].Number != "N-1" {
		t.Fatalf("settled notes = %+v", notes)
	}

	if rec := doRequest(t, s, http.MethodPost, "/api/notes/N-404/settle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing note status = %d, want 404", rec.Code)
	}

	if len(pub.events) != 2 {
		t.Errorf("published %d events, want 2", len(pub.events))
	}
}

func TestAppendDateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"ledger unparseable due_date", "/api/ledger",
			`{"date":"2026-01-01","due_date":"later","number":"X","customer":"Acme","debit":"10"}`},
		{"payroll unparseable date", "/api/payroll",
			`{"date":"yesterday","employee":"Rossi","hours":8}`},
		{"receipt unparseable date", "/api/receipts",
			`{"date":"32/13/2026","number":"R-1","customer":"Acme","amount":"10.00"}`},
		{"note unparseable date", "/api/notes",
			`{"date":"june","number":"N-9","customer":"Acme","amount":"10.00"}`},
		{"note unparseable due_date", "/api/notes",
			`{"date":"2026-06-01","due_date":"someday","number":"N-9","customer":"Acme","amount":"10.00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body)
			}
		})
	}
}

func TestActivityWithoutAuditLog(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/activity", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
