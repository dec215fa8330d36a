package http

import (
	"fmt"
	"net/http"
	"strings"

	"tradeops/internal/amqp"
	"tradeops/internal/core"
)

type inventoryItemJSON struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
	UnitCost     string `json:"unit_cost"`
	Supplier     string `json:"supplier,omitempty"`
	NeedsReorder bool   `json:"needs_reorder"`
}

func toInventoryItemJSON(it core.InventoryItem) inventoryItemJSON {
	return inventoryItemJSON{
		SKU:          it.SKU,
		Name:         it.Name,
		Quantity:     it.Quantity,
		ReorderLevel: it.ReorderLevel,
		UnitCost:     core.FormatCents(it.UnitCost.Cents),
		Supplier:     it.Supplier,
		NeedsReorder: it.NeedsReorder(),
	}
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListInventory(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]inventoryItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, toInventoryItemJSON(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReorderList lists items at or below their reorder level.
func (s *Server) handleReorderList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListInventory(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]inventoryItemJSON, 0)
	for _, it := range items {
		if it.NeedsReorder() {
			out = append(out, toInventoryItemJSON(it))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type appendInventoryRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
	UnitCost     string `json:"unit_cost"`
	Supplier     string `json:"supplier"`
}

func (s *Server) handleAppendInventory(w http.ResponseWriter, r *http.Request) {
	var req appendInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	cost, err := parseOptionalAmount(req.UnitCost)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("unit_cost %q: %v", req.UnitCost, core.ErrInvalidAmount))
		return
	}

	item := core.InventoryItem{
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     core.Money{Cents: cost},
		Supplier:     strings.TrimSpace(req.Supplier),
	}
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.store.AppendItem(r.Context(), item)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityInventory, amqp.ActionAppend, ref, actor(r))
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

type adjustInventoryRequest struct {
	Delta int64 `json:"delta"`
}

func (s *Server) handleAdjustInventory(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.PathValue("sku"))
	if sku == "" {
		writeError(w, http.StatusUnprocessableEntity, core.ErrEmptySKU.Error())
		return
	}

	var req adjustInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Delta == 0 {
		writeError(w, http.StatusUnprocessableEntity, "delta must be non-zero")
		return
	}

	item, err := s.store.AdjustQuantity(r.Context(), sku, req.Delta)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.publishEvent(r.Context(), amqp.EntityInventory, amqp.ActionAdjust, sku, actor(r))
	writeJSON(w, http.StatusOK, toInventoryItemJSON(item))
}
