package models

import "time"

// RevenueTotal represents revenue summed over all transactions
type RevenueTotal struct {
	TotalRevenue float64 `json:"total_revenue"`
	Currency     string  `json:"currency"`
}

// CustomerKPIs represents customer counts
type CustomerKPIs struct {
	TotalCustomers  int `json:"total_customers"`
	ActiveCustomers int `json:"active_customers"`
}

// RegionRevenue represents revenue attributed to one customer region
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue represents revenue for a calendar month
type MonthlyRevenue struct {
	Month   string  `json:"month"` // Format: YYYY-MM
	Revenue float64 `json:"revenue"`
}

// ForecastResponse represents a next-month revenue forecast.
// Model values are nil when the forecast is unavailable.
type ForecastResponse struct {
	Available        bool      `json:"available"`
	Message          string    `json:"message,omitempty"`
	NextMonth        string    `json:"next_month,omitempty"` // Format: January 2006
	Period           string    `json:"period,omitempty"`     // Format: YYYY-MM
	PredictedRevenue *float64  `json:"predicted_revenue,omitempty"`
	Slope            *float64  `json:"slope,omitempty"`
	Intercept        *float64  `json:"intercept,omitempty"`
	Observations     int       `json:"observations,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// DashboardOverview represents the executive summary
type DashboardOverview struct {
	Revenue   RevenueTotal     `json:"revenue"`
	Customers CustomerKPIs     `json:"customers"`
	Forecast  ForecastResponse `json:"forecast"`
}

// Insight represents a single decision insight
type Insight struct {
	Kind    string `json:"kind"` // region, trend, customers, data
	Message string `json:"message"`
}
