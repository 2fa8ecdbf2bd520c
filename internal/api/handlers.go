package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/example/resto-backoffice/internal/command"
	"github.com/example/resto-backoffice/internal/infrastructure/store"
	"github.com/example/resto-backoffice/internal/order"
	"github.com/example/resto-backoffice/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Order Handlers

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.queryHandler.ListOrders(r.Context())
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	o, ok := h.queryHandler.GetOrder(r.Context(), id)
	if !ok {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateOrder
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The back-office form pre-fills a generated number; API clients may
	// leave it out and get one assigned here.
	if cmd.OrderNumber == "" {
		cmd.OrderNumber = order.GenerateNumber(time.Now())
	}

	created, err := h.cmdHandler.CreateOrder(r.Context(), cmd)
	if err != nil {
		var verr command.ValidationErrors
		switch {
		case errors.As(err, &verr):
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verr})
		case errors.Is(err, store.ErrInsufficientStock):
			respondJSONError(w, err.Error(), http.StatusConflict)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	var cmd command.UpdateOrder
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.OrderID = id

	updated, err := h.cmdHandler.UpdateOrder(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondJSONError(w, "Order not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *Handlers) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/status")

	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.cmdHandler.ChangeStatus(r.Context(), command.ChangeOrderStatus{
		OrderID: id,
		Status:  req.Status,
	})
	if err != nil {
		var verr command.ValidationErrors
		switch {
		case errors.As(err, &verr):
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verr})
		case errors.Is(err, order.ErrOrderNotFound):
			respondJSONError(w, "Order not found", http.StatusNotFound)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	err := h.cmdHandler.DeleteOrder(r.Context(), command.DeleteOrder{OrderID: id})
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondJSONError(w, "Order not found", http.StatusNotFound)
			return
		}
		// Includes partial stock restores; the message names what was left.
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

func (h *Handlers) GetOrderItems(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/items")

	items := h.queryHandler.GetOrderItems(r.Context(), id)
	respondJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetOrderMargin(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/margin")

	margin := h.queryHandler.OrderMargin(r.Context(), id)
	respondJSON(w, http.StatusOK, map[string]any{
		"order_id": id,
		"margin":   margin,
	})
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products := h.queryHandler.ListProducts(r.Context())
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) IntakeProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.cmdHandler.IntakeProduct(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidName),
			errors.Is(err, catalog.ErrInvalidStock),
			errors.Is(err, catalog.ErrInvalidPrice):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	status := http.StatusOK
	if result.IsNew {
		status = http.StatusCreated
	}
	respondJSON(w, status, result)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
