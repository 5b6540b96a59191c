package router

import (
	"net/http"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/api/handler"
	"github.com/andreicosmin02/furniture-store-api/internal/middleware"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
	"github.com/andreicosmin02/furniture-store-api/internal/websockets"
)

// Services groups everything the router exposes over HTTP
type Services struct {
	Auth    *service.AuthService
	User    *service.UserService
	Catalog *service.CatalogService
	Order   *service.OrderService
	AI      *service.AIService
}

// Router handles HTTP routing
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	auth    *service.AuthService
	hub     *websockets.Hub
}

// New creates a new router
func New(svcs Services, hub *websockets.Hub) *Router {
	r := &Router{
		mux:  http.NewServeMux(),
		auth: svcs.Auth,
		hub:  hub,
	}

	r.setupRoutes(svcs)
	r.handler = middleware.Logger(r.mux)

	return r
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) setupRoutes(svcs Services) {
	authHandler := handler.NewAuthHandler(svcs.Auth)
	userHandler := handler.NewUserHandler(svcs.User)
	productHandler := handler.NewProductHandler(svcs.Catalog)
	orderHandler := handler.NewOrderHandler(svcs.Order, r.hub)
	aiHandler := handler.NewAIHandler(svcs.AI)

	// Health and websocket stream
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ws", r.handleWebSocket)

	// Auth
	r.mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	r.mux.HandleFunc("POST /api/auth/register/customer", authHandler.RegisterCustomer)
	r.mux.Handle("POST /api/auth/register", r.admin(authHandler.Register))

	// Users
	r.mux.Handle("GET /api/users/me", r.protected(userHandler.Me))
	r.mux.Handle("GET /api/users", r.admin(userHandler.List))
	r.mux.Handle("GET /api/users/{id}", r.admin(userHandler.Get))
	r.mux.Handle("PUT /api/users/{id}", r.protected(userHandler.Update))
	r.mux.Handle("DELETE /api/users/{id}", r.admin(userHandler.Delete))

	// Catalog, public reads
	r.mux.HandleFunc("GET /api/products", productHandler.List)
	r.mux.HandleFunc("GET /api/products/{id}", productHandler.Get)
	r.mux.HandleFunc("GET /api/products/{id}/image", productHandler.Image)
	r.mux.HandleFunc("GET /api/products/category/{category}", productHandler.ListByCategory)
	r.mux.HandleFunc("GET /api/products/get/search", productHandler.Search)
	r.mux.HandleFunc("GET /api/products/get/categories", productHandler.Categories)
	r.mux.HandleFunc("GET /api/products/get/random-per-category", productHandler.RandomPerCategory)

	// Catalog, admin writes
	r.mux.Handle("POST /api/products", r.admin(productHandler.Create))
	r.mux.Handle("PUT /api/products/{id}", r.admin(productHandler.Update))
	r.mux.Handle("DELETE /api/products/{id}", r.admin(productHandler.Delete))
	r.mux.Handle("PATCH /api/products/{id}/stock", r.admin(productHandler.UpdateStock))

	// Orders
	r.mux.Handle("POST /api/orders", r.protected(orderHandler.Create))
	r.mux.Handle("GET /api/orders/my-orders", r.protected(orderHandler.ListMine))
	r.mux.Handle("GET /api/orders/all", r.admin(orderHandler.ListAll))
	r.mux.Handle("GET /api/orders/{id}", r.protected(orderHandler.Get))
	r.mux.Handle("GET /api/orders/{orderId}/item/{itemId}/image", r.protected(orderHandler.LineImage))
	r.mux.Handle("PATCH /api/orders/{id}/status", r.admin(orderHandler.UpdateStatus))
	r.mux.Handle("PATCH /api/orders/{orderId}/products/{productId}/status", r.admin(orderHandler.UpdateLineStatus))

	// AI
	r.mux.Handle("POST /api/ai/analyze-furniture", r.protected(aiHandler.AnalyzeRoom))
	r.mux.Handle("POST /api/ai/generate-image", r.protected(aiHandler.GenerateImage))
}

// protected wraps a handler with bearer-token authentication
func (r *Router) protected(h http.HandlerFunc) http.Handler {
	return middleware.Auth(r.auth)(h)
}

// admin wraps a handler with authentication plus the admin role check
func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return middleware.Auth(r.auth)(middleware.RequireAdmin(h))
}

// handleHealth reports service liveness
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebSocket upgrades the connection and attaches it to the order
// events hub.
func (r *Router) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	userID := req.URL.Query().Get("user_id")
	if userID == "" {
		api.BadRequest(w, "user_id is required")
		return
	}

	conn, err := websockets.Upgrader.Upgrade(w, req, nil)
	if err != nil {
		// The upgrader already wrote the error response
		return
	}

	websockets.ServeWs(r.hub, conn, userID)
}
