package http

import (
	"fmt"
	"net/http"
	"strings"

	"tradeops/internal/amqp"
	"tradeops/internal/core"
	"tradeops/internal/export"
	"tradeops/internal/sheets"
)

type receiptJSON struct {
	Date     string `json:"date"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Method   string `json:"method,omitempty"`
	Memo     string `json:"memo,omitempty"`
}

func toReceiptJSON(r core.CashReceipt) receiptJSON {
	return receiptJSON{
		Date:     r.Date.String(),
		Number:   r.Number,
		Customer: r.Customer,
		Amount:   core.FormatCents(r.Amount.Cents),
		Method:   r.Method,
		Memo:     r.Memo,
	}
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.store.ListReceipts(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	customer := strings.TrimSpace(r.URL.Query().Get("customer"))
	out := make([]receiptJSON, 0, len(receipts))
	for _, rc := range receipts {
		if customer != "" && !strings.EqualFold(rc.Customer, customer) {
			continue
		}
		out = append(out, toReceiptJSON(rc))
	}
	writeJSON(w, http.StatusOK, out)
}

type appendReceiptRequest struct {
	Date     string `json:"date"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Method   string `json:"method"`
	Memo     string `json:"memo"`
}

func (s *Server) handleAppendReceipt(w http.ResponseWriter, r *http.Request) {
	var req appendReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	date := core.ParseDate(req.Date)
	if date.IsZero() {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("date %q: %v", req.Date, core.ErrInvalidDate))
		return
	}

	amount, err := core.ParseCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("amount %q: %v", req.Amount, core.ErrInvalidAmount))
		return
	}

	receipt := core.CashReceipt{
		Date:     date,
		Number:   strings.TrimSpace(req.Number),
		Customer: strings.TrimSpace(req.Customer),
		Amount:   core.Money{Cents: amount},
		Method:   strings.TrimSpace(req.Method),
		Memo:     strings.TrimSpace(req.Memo),
	}
	if err := receipt.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.store.AppendReceipt(r.Context(), receipt)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityReceipt, amqp.ActionAppend, ref, actor(r))
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

// handleReceiptVoucher renders a printable PDF voucher for one receipt.
func (s *Server) handleReceiptVoucher(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.PathValue("number"))
	if number == "" {
		writeError(w, http.StatusUnprocessableEntity, core.ErrEmptyNumber.Error())
		return
	}

	receipts, err := s.store.ListReceipts(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	for _, rc := range receipts {
		if !strings.EqualFold(rc.Number, number) {
			continue
		}
		pdf, err := export.ReceiptVoucherPDF(rc)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		serveDownload(w, "application/pdf", export.ReceiptFileName(rc), pdf)
		return
	}

	writeStoreError(w, r, fmt.Errorf("receipt %s: %w", number, sheets.ErrNotFound))
}
