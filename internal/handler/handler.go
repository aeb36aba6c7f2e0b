package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dan9191/bizpulse/internal/forecast"
	"github.com/Dan9191/bizpulse/internal/middleware"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/Dan9191/bizpulse/internal/report"
	"github.com/Dan9191/bizpulse/internal/service"
	"github.com/Dan9191/bizpulse/internal/utils"
	"github.com/sirupsen/logrus"
)

// SignatureHeader carries the HMAC of a downloaded report
const SignatureHeader = "X-Report-Signature"

// Analytics is the service surface used by the handlers
type Analytics interface {
	Overview(ctx context.Context) (*models.DashboardOverview, error)
	TotalRevenue(ctx context.Context) (*models.RevenueTotal, error)
	CustomerKPIs(ctx context.Context) (*models.CustomerKPIs, error)
	RegionRevenue(ctx context.Context) ([]models.RegionRevenue, error)
	MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenue, error)
	Forecast(ctx context.Context) (*models.ForecastResponse, error)
	UnavailableForecast() models.ForecastResponse
	Insights(ctx context.Context) ([]models.Insight, error)
	Summary(ctx context.Context) (*report.Summary, error)
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Pinger reports database health
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc        Analytics
	db         Pinger
	log        *logrus.Logger
	hmacSecret string
}

func NewHandler(svc Analytics, db Pinger, log *logrus.Logger, hmacSecret string) *Handler {
	return &Handler{svc: svc, db: db, log: log, hmacSecret: hmacSecret}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Health reports whether the database is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorf("Health check failed: %v", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register handles analyst registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidUser):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserExists):
		h.writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.internalError(w, r, "register", err)
	default:
		h.writeJSON(w, http.StatusCreated, user)
	}
}

// Login handles analyst authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		h.internalError(w, r, "login", err)
	default:
		h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// Overview returns the executive dashboard summary
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Overview(r.Context())
	if err != nil {
		h.internalError(w, r, "overview", err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

// TotalRevenue returns revenue over all transactions
func (h *Handler) TotalRevenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.TotalRevenue(r.Context())
	if err != nil {
		h.internalError(w, r, "total revenue", err)
		return
	}
	h.writeJSON(w, http.StatusOK, total)
}

// CustomerKPIs returns customer counts
func (h *Handler) CustomerKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.svc.CustomerKPIs(r.Context())
	if err != nil {
		h.internalError(w, r, "customer kpis", err)
		return
	}
	h.writeJSON(w, http.StatusOK, kpis)
}

// RegionRevenue returns revenue by region
func (h *Handler) RegionRevenue(w http.ResponseWriter, r *http.Request) {
	regions, err := h.svc.RegionRevenue(r.Context())
	if err != nil {
		h.internalError(w, r, "region revenue", err)
		return
	}
	h.writeJSON(w, http.StatusOK, regions)
}

// MonthlyRevenue returns the monthly revenue trend
func (h *Handler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.MonthlyRevenue(r.Context())
	if err != nil {
		h.internalError(w, r, "monthly revenue", err)
		return
	}
	h.writeJSON(w, http.StatusOK, months)
}

// Forecast returns next month's revenue forecast. Without revenue history
// it answers with an explicit unavailable state instead of a zero value.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	fc, err := h.svc.Forecast(r.Context())
	switch {
	case errors.Is(err, forecast.ErrInsufficientData):
		h.writeJSON(w, http.StatusOK, h.svc.UnavailableForecast())
	case err != nil:
		h.internalError(w, r, "forecast", err)
	default:
		h.writeJSON(w, http.StatusOK, fc)
	}
}

// Insights returns rule-based decision insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.Insights(r.Context())
	if err != nil {
		h.internalError(w, r, "insights", err)
		return
	}
	h.writeJSON(w, http.StatusOK, insights)
}

// SummaryReport returns the signed XML summary report
func (h *Handler) SummaryReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		h.internalError(w, r, "report summary", err)
		return
	}

	body, err := report.BuildXML(*summary)
	if err != nil {
		h.internalError(w, r, "report render", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.xml"`)
	w.Header().Set(SignatureHeader, utils.SignPayload(body, h.hmacSecret))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.WithFields(requestFields(r)).Errorf("Failed to write report: %v", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.WithFields(requestFields(r)).Errorf("Failed to handle %s: %v", op, err)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}

func requestFields(r *http.Request) logrus.Fields {
	fields := logrus.Fields{"request_id": middleware.RequestID(r.Context())}
	if id, ok := middleware.UserID(r.Context()); ok {
		fields["user_id"] = id
	}
	return fields
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
