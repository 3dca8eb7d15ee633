package httpapi

import (
	"net/http"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/logger"
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/metrics"
	"github.com/chanchalmahajan01/GKT/internal/middleware"
	"github.com/chanchalmahajan01/GKT/internal/order"
	"github.com/chanchalmahajan01/GKT/internal/utils"

	"github.com/gorilla/mux"
)

// API bundles the services the HTTP layer orchestrates.
type API struct {
	Accounts account.Service
	Menus    menu.Service
	Orders   order.Service
	QR       order.QRGenerator
	Relay    http.Handler
}

// NewRouter wires the REST surface, the websocket endpoint and the debug
// endpoints onto one mux router.
func NewRouter(a *API) *mux.Router {
	r := mux.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to GharKaTiffin API"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/debug/stats", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, metrics.Snapshot())
	}).Methods(http.MethodGet)

	if a.Relay != nil {
		r.Handle("/ws", a.Relay)
	}

	// Auth
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/customer/register", a.RegisterCustomer).Methods(http.MethodPost)
	auth.HandleFunc("/provider/register", a.RegisterProvider).Methods(http.MethodPost)
	auth.HandleFunc("/customer/login", a.LoginCustomer).Methods(http.MethodPost)
	auth.HandleFunc("/provider/login", a.LoginProvider).Methods(http.MethodPost)
	auth.HandleFunc("/verify-otp", a.VerifyOTP).Methods(http.MethodPost)
	auth.HandleFunc("/resend-otp", a.ResendOTP).Methods(http.MethodPost)

	r.Handle("/api/auth/me", middleware.AuthRequired(http.HandlerFunc(a.Me))).Methods(http.MethodGet)

	// Customer
	customer := r.PathPrefix("/api/customer").Subrouter()
	customer.Use(middleware.AuthRequired)
	customer.Use(middleware.RequireRole(string(account.RoleCustomer)))
	customer.HandleFunc("/messes/nearby", a.GetNearbyMesses).Methods(http.MethodGet)
	customer.HandleFunc("/messes", a.GetAllMesses).Methods(http.MethodGet)
	customer.HandleFunc("/messes/{id}", a.GetMessDetails).Methods(http.MethodGet)
	customer.HandleFunc("/messes/{id}/menu", a.GetMessMenu).Methods(http.MethodGet)
	customer.HandleFunc("/orders", a.PlaceOrder).Methods(http.MethodPost)
	customer.HandleFunc("/orders/recent", a.GetRecentOrders).Methods(http.MethodGet)
	customer.HandleFunc("/orders", a.GetAllOrders).Methods(http.MethodGet)
	customer.HandleFunc("/orders/{id}", a.GetOrderDetails).Methods(http.MethodGet)
	customer.HandleFunc("/orders/{id}/qr", a.GetOrderQR).Methods(http.MethodGet)
	customer.HandleFunc("/orders/{id}/review", a.SubmitReview).Methods(http.MethodPost)
	customer.HandleFunc("/profile", a.GetCustomerProfile).Methods(http.MethodGet)
	customer.HandleFunc("/profile", a.UpdateCustomerProfile).Methods(http.MethodPut)

	// Provider
	provider := r.PathPrefix("/api/provider").Subrouter()
	provider.Use(middleware.AuthRequired)
	provider.Use(middleware.RequireRole(string(account.RoleProvider)))
	provider.HandleFunc("/menu", a.UpdateMenu).Methods(http.MethodPost)
	provider.HandleFunc("/menu", a.GetMenuByDate).Methods(http.MethodGet)
	provider.HandleFunc("/orders/recent", a.GetProviderRecentOrders).Methods(http.MethodGet)
	provider.HandleFunc("/orders", a.GetProviderOrders).Methods(http.MethodGet)
	provider.HandleFunc("/orders/{id}/status", a.UpdateOrderStatus).Methods(http.MethodPut)
	provider.HandleFunc("/stats", a.GetProviderStats).Methods(http.MethodGet)
	provider.HandleFunc("/profile", a.GetProviderProfile).Methods(http.MethodGet)
	provider.HandleFunc("/profile", a.UpdateProviderProfile).Methods(http.MethodPut)

	return r
}
