// Package report renders the business summary as an XML document.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// Summary is everything included in the downloadable report
type Summary struct {
	Overview    models.DashboardOverview
	Regions     []models.RegionRevenue
	Monthly     []models.MonthlyRevenue
	Insights    []models.Insight
	GeneratedAt time.Time
}

// BuildXML renders the summary as an indented XML document
func BuildXML(s Summary) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("generated_at", s.GeneratedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("currency", s.Overview.Revenue.Currency)

	root.CreateElement("revenue").CreateAttr("total", money(s.Overview.Revenue.TotalRevenue))

	customers := root.CreateElement("customers")
	customers.CreateAttr("total", strconv.Itoa(s.Overview.Customers.TotalCustomers))
	customers.CreateAttr("active", strconv.Itoa(s.Overview.Customers.ActiveCustomers))

	regions := root.CreateElement("regions")
	for _, r := range s.Regions {
		el := regions.CreateElement("region")
		el.CreateAttr("name", r.Region)
		el.CreateAttr("revenue", money(r.Revenue))
	}

	monthly := root.CreateElement("monthly")
	for _, m := range s.Monthly {
		el := monthly.CreateElement("month")
		el.CreateAttr("period", m.Month)
		el.CreateAttr("revenue", money(m.Revenue))
	}

	fc := s.Overview.Forecast
	forecast := root.CreateElement("forecast")
	forecast.CreateAttr("available", strconv.FormatBool(fc.Available))
	if fc.Available && fc.PredictedRevenue != nil {
		forecast.CreateAttr("period", fc.Period)
		forecast.CreateAttr("label", fc.NextMonth)
		forecast.CreateAttr("predicted_revenue", money(*fc.PredictedRevenue))
		forecast.CreateAttr("observations", strconv.Itoa(fc.Observations))
	} else {
		forecast.SetText(fc.Message)
	}

	insights := root.CreateElement("insights")
	for _, in := range s.Insights {
		el := insights.CreateElement("insight")
		el.CreateAttr("kind", in.Kind)
		el.SetText(in.Message)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
