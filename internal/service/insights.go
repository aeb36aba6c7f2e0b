package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Dan9191/bizpulse/internal/forecast"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/shopspring/decimal"
)

const (
	InsightData      = "data"
	InsightRegion    = "region"
	InsightTrend     = "trend"
	InsightCustomers = "customers"
)

// flatTrendPct is the projected change below which the trend is reported as flat
const flatTrendPct = 1.0

// Insights derives decision insights from regional revenue, the revenue
// trend and customer activity.
func (s *Service) Insights(ctx context.Context) ([]models.Insight, error) {
	observations, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return s.insightsFrom(nil, nil, nil, s.UnavailableForecast()), nil
	}

	regions, err := s.repo.RevenueByRegion(ctx)
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
	return s.insightsFrom(observations, regions, customers, fc), nil
}

func (s *Service) insightsFrom(observations []forecast.Observation, regions []models.RegionRevenue,
	customers *models.CustomerKPIs, fc models.ForecastResponse) []models.Insight {
	if len(observations) == 0 {
		return []models.Insight{{
			Kind:    InsightData,
			Message: "No transactions recorded yet. Insights will appear once revenue is captured.",
		}}
	}

	var insights []models.Insight
	if in, ok := regionInsight(regions, s.config.Currency); ok {
		insights = append(insights, in)
	}
	if fc.Available && fc.PredictedRevenue != nil {
		last := observations[len(observations)-1]
		insights = append(insights, trendInsight(last, fc.NextMonth, *fc.PredictedRevenue, s.config.Currency))
	}
	if in, ok := customerInsight(customers); ok {
		insights = append(insights, in)
	}
	return insights
}

func regionInsight(regions []models.RegionRevenue, currency string) (models.Insight, bool) {
	if len(regions) == 0 {
		return models.Insight{}, false
	}

	var total float64
	for _, r := range regions {
		total += r.Revenue
	}
	top := regions[0]
	if total <= 0 {
		return models.Insight{}, false
	}

	share := top.Revenue / total * 100
	msg := fmt.Sprintf("%s leads revenue with %s %s (%.1f%% of the total).",
		top.Region, currency, money(top.Revenue), share)
	if len(regions) > 1 && share >= 50 {
		msg += " Revenue is concentrated in one region; expanding in the others would reduce dependency."
	}
	return models.Insight{Kind: InsightRegion, Message: msg}, true
}

func trendInsight(last forecast.Observation, nextMonth string, predictedRevenue float64, currency string) models.Insight {
	predicted := fmt.Sprintf("%s %s", currency, money(predictedRevenue))
	if last.Revenue == 0 {
		return models.Insight{
			Kind:    InsightTrend,
			Message: fmt.Sprintf("Revenue for %s is projected at %s.", nextMonth, predicted),
		}
	}

	change := (predictedRevenue - last.Revenue) / math.Abs(last.Revenue) * 100
	var msg string
	switch {
	case math.Abs(change) < flatTrendPct:
		msg = fmt.Sprintf("Revenue is expected to hold steady at %s in %s.", predicted, nextMonth)
	case change > 0:
		msg = fmt.Sprintf("Revenue is projected to grow %.1f%% to %s in %s.", change, predicted, nextMonth)
	default:
		msg = fmt.Sprintf("Revenue is projected to decline %.1f%% to %s in %s. Review pricing and pipeline.",
			-change, predicted, nextMonth)
	}
	return models.Insight{Kind: InsightTrend, Message: msg}
}

func customerInsight(kpis *models.CustomerKPIs) (models.Insight, bool) {
	if kpis == nil || kpis.TotalCustomers == 0 {
		return models.Insight{}, false
	}

	ratio := float64(kpis.ActiveCustomers) / float64(kpis.TotalCustomers) * 100
	msg := fmt.Sprintf("%d of %d customers are active (%.1f%%).", kpis.ActiveCustomers, kpis.TotalCustomers, ratio)
	if ratio < 50 {
		msg += " A re-engagement campaign could recover inactive customers."
	}
	return models.Insight{Kind: InsightCustomers, Message: msg}, true
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
