package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/bizpulse/internal/config"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendForecastDigest emails the executive summary to the given recipients
func (s *Sender) SendForecastDigest(to []string, overview *models.DashboardOverview) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = to
	e.Subject = DigestSubject(overview)
	e.Text = []byte(DigestBody(overview))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", strings.Join(to, ", "), err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Digest sent to %d recipients: %s", len(to), e.Subject)
	return nil
}

// DigestSubject names the forecast month when one is available
func DigestSubject(overview *models.DashboardOverview) string {
	if overview.Forecast.Available {
		return fmt.Sprintf("Revenue digest: forecast for %s", overview.Forecast.NextMonth)
	}
	return "Revenue digest"
}

// DigestBody formats the plain-text digest
func DigestBody(overview *models.DashboardOverview) string {
	currency := overview.Revenue.Currency
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "Total revenue: %s %s\n", currency, decimal.NewFromFloat(overview.Revenue.TotalRevenue).StringFixed(2))
	fmt.Fprintf(&b, "Customers: %d total, %d active\n",
		overview.Customers.TotalCustomers, overview.Customers.ActiveCustomers)
	if fc := overview.Forecast; fc.Available && fc.PredictedRevenue != nil {
		fmt.Fprintf(&b, "Forecast for %s: %s %s (trend fitted on %d months)\n",
			fc.NextMonth, currency,
			decimal.NewFromFloat(*fc.PredictedRevenue).StringFixed(2),
			fc.Observations)
	} else {
		fmt.Fprintf(&b, "Next month forecast: %s\n", overview.Forecast.Message)
	}
	b.WriteString("\nBest regards,\nBizPulse")
	return b.String()
}
