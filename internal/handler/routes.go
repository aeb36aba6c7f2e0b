package handler

import (
	"net/http"

	"github.com/Dan9191/bizpulse/internal/config"
	"github.com/Dan9191/bizpulse/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter registers public and authenticated routes
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware, middleware.Logging(h.log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	analytics := r.PathPrefix("/analytics").Subrouter()
	analytics.Use(middleware.AuthMiddleware(cfg))
	analytics.HandleFunc("/overview", h.Overview).Methods(http.MethodGet)
	analytics.HandleFunc("/revenue/total", h.TotalRevenue).Methods(http.MethodGet)
	analytics.HandleFunc("/revenue/monthly", h.MonthlyRevenue).Methods(http.MethodGet)
	analytics.HandleFunc("/customers", h.CustomerKPIs).Methods(http.MethodGet)
	analytics.HandleFunc("/regions", h.RegionRevenue).Methods(http.MethodGet)
	analytics.HandleFunc("/forecast", h.Forecast).Methods(http.MethodGet)
	analytics.HandleFunc("/insights", h.Insights).Methods(http.MethodGet)

	reports := r.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.AuthMiddleware(cfg))
	reports.HandleFunc("/summary.xml", h.SummaryReport).Methods(http.MethodGet)

	return r
}
