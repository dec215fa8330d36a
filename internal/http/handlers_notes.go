package http

import (
	"fmt"
	"net/http"
	"strings"

	"tradeops/internal/amqp"
	"tradeops/internal/core"
)

type noteJSON struct {
	Date     string `json:"date"`
	DueDate  string `json:"due_date,omitempty"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
}

func toNoteJSON(n core.PromissoryNote) noteJSON {
	return noteJSON{
		Date:     n.Date.String(),
		DueDate:  n.DueDate.String(),
		Number:   n.Number,
		Customer: n.Customer,
		Amount:   core.FormatCents(n.Amount.Cents),
		Kind:     string(n.Kind),
		Status:   string(n.Status),
	}
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	out := make([]noteJSON, 0, len(notes))
	for _, n := range notes {
		if status != "" && !strings.EqualFold(string(n.Status), status) {
			continue
		}
		out = append(out, toNoteJSON(n))
	}
	writeJSON(w, http.StatusOK, out)
}

type appendNoteRequest struct {
	Date     string `json:"date"`
	DueDate  string `json:"due_date"`
	Number   string `json:"number"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
}

func (s *Server) handleAppendNote(w http.ResponseWriter, r *http.Request) {
	var req appendNoteRequest
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

	var due core.Date
	if strings.TrimSpace(req.DueDate) != "" {
		due = core.ParseDate(req.DueDate)
		if due.IsZero() {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("due_date %q: %v", req.DueDate, core.ErrInvalidDate))
			return
		}
	}

	amount, err := core.ParseCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("amount %q: %v", req.Amount, core.ErrInvalidAmount))
		return
	}

	kind := core.NoteKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind == "" {
		kind = core.NoteReceivable
	}

	note := core.PromissoryNote{
		Date:     date,
		DueDate:  due,
		Number:   strings.TrimSpace(req.Number),
		Customer: strings.TrimSpace(req.Customer),
		Amount:   core.Money{Cents: amount},
		Kind:     kind,
		Status:   core.NoteOpen,
	}
	if err := note.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.store.AppendNote(r.Context(), note)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityNote, amqp.ActionAppend, ref, actor(r))
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

func (s *Server) handleSettleNote(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.PathValue("number"))
	if number == "" {
		writeError(w, http.StatusUnprocessableEntity, core.ErrEmptyNumber.Error())
		return
	}

	if err := s.store.SettleNote(r.Context(), number); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityNote, amqp.ActionSettle, number, actor(r))
	writeJSON(w, http.StatusOK, map[string]string{"number": number, "status": string(core.NoteSettled)})
}
