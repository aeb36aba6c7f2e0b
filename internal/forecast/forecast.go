// Package forecast fits a linear trend to monthly revenue and extrapolates
// it one month ahead.
//
// Observations are indexed 0..n-1 in sequence order, not by calendar
// distance, so a month missing from the input does not widen the gap
// between its neighbours.
package forecast

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData is returned when there are no observations to fit
	ErrInsufficientData = errors.New("insufficient data for forecast")
	// ErrInvalidInput is returned when observations are unordered, duplicated or malformed
	ErrInvalidInput = errors.New("invalid forecast input")
)

// Observation is the aggregated revenue of one month
type Observation struct {
	Period  Period
	Revenue float64
}

// Result is a one-step-ahead forecast
type Result struct {
	NextPeriod       Period
	PredictedRevenue float64
	Model            Model
	Observations     int
}

// Model is a fitted line revenue = Slope*index + Intercept
type Model struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at the given index
func (m Model) At(index float64) float64 {
	return m.Slope*index + m.Intercept
}

// Validate checks that observations are non-empty, strictly ascending by
// period and carry finite revenue.
func Validate(obs []Observation) error {
	if len(obs) == 0 {
		return ErrInsufficientData
	}
	for i, o := range obs {
		if !o.Period.Valid() {
			return fmt.Errorf("%w: observation %d has month %d", ErrInvalidInput, i, int(o.Period.Month))
		}
		if math.IsNaN(o.Revenue) || math.IsInf(o.Revenue, 0) {
			return fmt.Errorf("%w: observation %d (%s) has non-finite revenue", ErrInvalidInput, i, o.Period)
		}
		if i > 0 && !obs[i-1].Period.Before(o.Period) {
			return fmt.Errorf("%w: period %s at position %d does not follow %s", ErrInvalidInput, o.Period, i, obs[i-1].Period)
		}
	}
	return nil
}

// Fit computes the ordinary least squares line of revenue on synthetic index.
// A single observation yields a flat line through its revenue.
func Fit(obs []Observation) (Model, error) {
	if err := Validate(obs); err != nil {
		return Model{}, err
	}

	n := float64(len(obs))
	if len(obs) == 1 {
		return Model{Slope: 0, Intercept: obs[0].Revenue}, nil
	}

	var sumX, sumY float64
	for i, o := range obs {
		sumX += float64(i)
		sumY += o.Revenue
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxy, sxx float64
	for i, o := range obs {
		dx := float64(i) - meanX
		sxy += dx * (o.Revenue - meanY)
		sxx += dx * dx
	}

	slope := sxy / sxx
	return Model{Slope: slope, Intercept: meanY - slope*meanX}, nil
}

// Predict fits the trend and evaluates it at index n, the month after the
// last observation. The prediction is not clamped and may be negative.
func Predict(obs []Observation) (Result, error) {
	model, err := Fit(obs)
	if err != nil {
		return Result{}, err
	}

	return Result{
		NextPeriod:       obs[len(obs)-1].Period.Next(),
		PredictedRevenue: model.At(float64(len(obs))),
		Model:            model,
		Observations:     len(obs),
	}, nil
}
