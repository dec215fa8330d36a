package http

import (
	"fmt"
	"net/http"
	"strings"

	"tradeops/internal/amqp"
	"tradeops/internal/core"
)

type payrollEntryJSON struct {
	Date          string  `json:"date"`
	Employee      string  `json:"employee"`
	Hours         float64 `json:"hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	HourlyRate    string  `json:"hourly_rate"`
	Note          string  `json:"note,omitempty"`
}

// handleListPayroll returns entries for one month, defaulting to the
// current one. Month accepts numbers and English names.
func (s *Server) handleListPayroll(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	entries, err := s.store.ListPayroll(r.Context(), year, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]payrollEntryJSON, 0, len(entries))
	var totalHours, totalOvertime float64
	for _, e := range entries {
		out = append(out, payrollEntryJSON{
			Date:          e.Date.String(),
			Employee:      e.Employee,
			Hours:         e.Hours,
			OvertimeHours: e.OvertimeHours,
			HourlyRate:    core.FormatCents(e.HourlyRate.Cents),
			Note:          e.Note,
		})
		totalHours += e.Hours
		totalOvertime += e.OvertimeHours
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":           year,
		"month":          int(month),
		"entries":        out,
		"total_hours":    totalHours,
		"total_overtime": totalOvertime,
	})
}

type appendPayrollRequest struct {
	Date          string  `json:"date"`
	Employee      string  `json:"employee"`
	Hours         float64 `json:"hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	HourlyRate    string  `json:"hourly_rate"`
	Note          string  `json:"note"`
}

func (s *Server) handleAppendPayroll(w http.ResponseWriter, r *http.Request) {
	var req appendPayrollRequest
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

	rate, err := parseOptionalAmount(req.HourlyRate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("hourly_rate %q: %v", req.HourlyRate, core.ErrInvalidAmount))
		return
	}

	entry := core.PayrollEntry{
		Date:          date,
		Employee:      strings.TrimSpace(req.Employee),
		Hours:         req.Hours,
		OvertimeHours: req.OvertimeHours,
		HourlyRate:    core.Money{Cents: rate},
		Note:          strings.TrimSpace(req.Note),
	}
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.store.AppendPayroll(r.Context(), entry)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityPayroll, amqp.ActionAppend, ref, actor(r))
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}
