package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/bizpulse/internal/forecast"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/Dan9191/bizpulse/internal/report"
	"github.com/sirupsen/logrus"
)

// ForecastUnavailableMessage is shown when there is no revenue history
const ForecastUnavailableMessage = "forecast unavailable: not enough data"

// TotalRevenue returns revenue over all transactions
func (s *Service) TotalRevenue(ctx context.Context) (*models.RevenueTotal, error) {
	total, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &models.RevenueTotal{
		TotalRevenue: total.InexactFloat64(),
		Currency:     s.config.Currency,
	}, nil
}

// CustomerKPIs returns total and active customer counts
func (s *Service) CustomerKPIs(ctx context.Context) (*models.CustomerKPIs, error) {
	return s.repo.CustomerKPIs(ctx)
}

// RegionRevenue returns revenue per region, highest first
func (s *Service) RegionRevenue(ctx context.Context) ([]models.RegionRevenue, error) {
	return s.repo.RevenueByRegion(ctx)
}

// MonthlyRevenue returns the monthly revenue trend in calendar order
func (s *Service) MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenue, error) {
	observations, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return monthlyFrom(observations), nil
}

func monthlyFrom(observations []forecast.Observation) []models.MonthlyRevenue {
	months := make([]models.MonthlyRevenue, 0, len(observations))
	for _, o := range observations {
		months = append(months, models.MonthlyRevenue{Month: o.Period.String(), Revenue: o.Revenue})
	}
	return months
}

// Forecast predicts next month's revenue from the monthly history.
// It returns forecast.ErrInsufficientData when there is no history and
// forecast.ErrInvalidInput when the history is malformed.
func (s *Service) Forecast(ctx context.Context) (*models.ForecastResponse, error) {
	observations, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return s.forecastFrom(observations)
}

// UnavailableForecast is the forecast shown when there is no revenue history.
// It carries no predicted value.
func (s *Service) UnavailableForecast() models.ForecastResponse {
	return models.ForecastResponse{
		Available:   false,
		Message:     ForecastUnavailableMessage,
		GeneratedAt: s.now().UTC(),
	}
}

func (s *Service) forecastFrom(observations []forecast.Observation) (*models.ForecastResponse, error) {
	result, err := forecast.Predict(observations)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			s.log.Warn("Revenue forecast skipped: no monthly revenue recorded")
		} else {
			s.log.Errorf("Revenue forecast rejected input: %v", err)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"observations": result.Observations,
		"slope":        result.Model.Slope,
		"intercept":    result.Model.Intercept,
	}).Debug("Fitted revenue trend")
	s.log.Infof("Forecast for %s: %.2f", result.NextPeriod.Label(), result.PredictedRevenue)

	predicted, slope, intercept := result.PredictedRevenue, result.Model.Slope, result.Model.Intercept
	return &models.ForecastResponse{
		Available:        true,
		NextMonth:        result.NextPeriod.Label(),
		Period:           result.NextPeriod.String(),
		PredictedRevenue: &predicted,
		Slope:            &slope,
		Intercept:        &intercept,
		Observations:     result.Observations,
		GeneratedAt:      s.now().UTC(),
	}, nil
}

// forecastState is forecastFrom with insufficient data turned into the
// unavailable state.
func (s *Service) forecastState(observations []forecast.Observation) (models.ForecastResponse, error) {
	fc, err := s.forecastFrom(observations)
	switch {
	case errors.Is(err, forecast.ErrInsufficientData):
		return s.UnavailableForecast(), nil
	case err != nil:
		return models.ForecastResponse{}, fmt.Errorf("failed to build forecast: %w", err)
	}
	return *fc, nil
}

// Overview builds the executive summary. A missing forecast is reported
// as unavailable rather than failing the whole overview.
func (s *Service) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	observations, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return s.overviewFrom(ctx, observations)
}

func (s *Service) overviewFrom(ctx context.Context, observations []forecast.Observation) (*models.DashboardOverview, error) {
	revenue, err := s.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.CustomerKPIs(ctx)
	if err != nil {
		return nil, err
	}
	fc, err := s.forecastState(observations)
	if err != nil {
		return nil, err
	}

	return &models.DashboardOverview{
		Revenue:   *revenue,
		Customers: *customers,
		Forecast:  fc,
	}, nil
}

// Summary collects everything in the downloadable report. The monthly
// series is read once so the trend, forecast and insights agree.
func (s *Service) Summary(ctx context.Context) (*report.Summary, error) {
	observations, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := s.overviewFrom(ctx, observations)
	if err != nil {
		return nil, err
	}
	regions, err := s.repo.RevenueByRegion(ctx)
	if err != nil {
		return nil, err
	}

	return &report.Summary{
		Overview:    *overview,
		Regions:     regions,
		Monthly:     monthlyFrom(observations),
		Insights:    s.insightsFrom(observations, regions, &overview.Customers, overview.Forecast),
		GeneratedAt: s.now().UTC(),
	}, nil
}
