package email

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/Dan9191/bizpulse/internal/config"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func testOverview(available bool) *models.DashboardOverview {
	o := &models.DashboardOverview{
		Revenue:   models.RevenueTotal{TotalRevenue: 1234.5, Currency: "INR"},
		Customers: models.CustomerKPIs{TotalCustomers: 10, ActiveCustomers: 7},
	}
	if available {
		predicted := 400.0
		o.Forecast = models.ForecastResponse{Available: true, NextMonth: "April 2024", PredictedRevenue: &predicted, Observations: 3}
	} else {
		o.Forecast = models.ForecastResponse{Message: "forecast unavailable: not enough data"}
	}
	return o
}

func TestDigestBody(t *testing.T) {
	body := DigestBody(testOverview(true))
	for _, want := range []string{
		"Total revenue: INR 1234.50",
		"Customers: 10 total, 7 active",
		"Forecast for April 2024: INR 400.00 (trend fitted on 3 months)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	body = DigestBody(testOverview(false))
	if !strings.Contains(body, "Next month forecast: forecast unavailable: not enough data") {
		t.Errorf("body missing unavailable state:\n%s", body)
	}
	if DigestSubject(testOverview(false)) != "Revenue digest" {
		t.Errorf("subject = %q", DigestSubject(testOverview(false)))
	}
}

func TestSendForecastDigest(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUsername: "user", SenderEmail: "bizpulse@example.com"}
	sender := NewSender(cfg, log)

	var gotAddr string
	var got *email.Email
	sender.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		got, gotAddr = e, addr
		if auth == nil {
			t.Error("expected smtp auth when username is set")
		}
		return nil
	}

	to := []string{"cfo@example.com"}
	if err := sender.SendForecastDigest(to, testOverview(true)); err != nil {
		t.Fatalf("SendForecastDigest() error = %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if got.Subject != "Revenue digest: forecast for April 2024" || got.From != cfg.SenderEmail {
		t.Errorf("email = subject %q from %q", got.Subject, got.From)
	}

	sendErr := errors.New("connection refused")
	sender.send = func(*email.Email, string, smtp.Auth) error { return sendErr }
	if err := sender.SendForecastDigest(to, testOverview(true)); !errors.Is(err, sendErr) {
		t.Errorf("SendForecastDigest() error = %v, want %v", err, sendErr)
	}
}
