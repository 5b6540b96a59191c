package handler

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/middleware"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
	"github.com/andreicosmin02/furniture-store-api/internal/websockets"
)

// OrderHandler handles order workflow requests
type OrderHandler struct {
	orderService *service.OrderService
	hub          *websockets.Hub
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, hub *websockets.Hub) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		hub:          hub,
	}
}

// Create places an order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Unauthorized(w, "Unauthorized")
		return
	}

	var req models.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.orderService.Create(r.Context(), actor, req)
	if err != nil {
		api.Error(w, err)
		return
	}

	h.hub.BroadcastOrderEvent(websockets.EventOrderNew, order.ID.String(), string(order.Status))

	api.RespondJSON(w, http.StatusCreated, order)
}

// ListMine returns the authenticated user's orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Unauthorized(w, "Unauthorized")
		return
	}

	orders, err := h.orderService.ListMine(r.Context(), actor)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, orders)
}

// ListAll returns every order
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, orders)
}

// Get returns an order; customers only see their own
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.orderService.Get(r.Context(), actor, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, order)
}

// UpdateStatus sets the order status, propagating it to the lines
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.BadRequest(w, "Invalid order ID")
		return
	}

	var req models.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		api.Error(w, err)
		return
	}

	h.hub.BroadcastOrderEvent(websockets.EventOrderStatus, order.ID.String(), string(order.Status))

	api.RespondJSON(w, http.StatusOK, order)
}

// UpdateLineStatus sets one line's status within an order
func (h *OrderHandler) UpdateLineStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		api.BadRequest(w, "Invalid order ID")
		return
	}
	productID, err := uuid.Parse(r.PathValue("productId"))
	if err != nil {
		api.BadRequest(w, "Invalid product ID")
		return
	}

	var req models.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateLineStatus(r.Context(), orderID, productID, req.Status)
	if err != nil {
		api.Error(w, err)
		return
	}

	h.hub.BroadcastOrderEvent(websockets.EventOrderLineStatus, order.ID.String(), string(req.Status))

	api.RespondJSON(w, http.StatusOK, order)
}

// LineImage streams the custom image attached to an order line
func (h *OrderHandler) LineImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Unauthorized(w, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		api.BadRequest(w, "Invalid order ID")
		return
	}
	itemID, err := uuid.Parse(r.PathValue("itemId"))
	if err != nil {
		api.BadRequest(w, "Invalid item ID")
		return
	}

	body, contentType, err := h.orderService.LineImage(r.Context(), actor, orderID, itemID)
	if err != nil {
		api.Error(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, body)
}
