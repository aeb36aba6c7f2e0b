package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/bizpulse/internal/forecast"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestTotalRevenue(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total_revenue"}).AddRow("1500.50"))

	total, err := repo.TotalRevenue(context.Background())
	if err != nil {
		t.Fatalf("TotalRevenue() error = %v", err)
	}
	if !total.Equal(decimal.RequireFromString("1500.5")) {
		t.Errorf("TotalRevenue() = %s, want 1500.5", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCustomerKPIs(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FILTER \(WHERE is_active = TRUE\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total_customers", "active_customers"}).AddRow(int64(10), int64(7)))

	kpis, err := repo.CustomerKPIs(context.Background())
	if err != nil {
		t.Fatalf("CustomerKPIs() error = %v", err)
	}
	if kpis.TotalCustomers != 10 || kpis.ActiveCustomers != 7 {
		t.Errorf("CustomerKPIs() = %+v", kpis)
	}
}

func TestRevenueByRegion(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`GROUP BY c.region`).
		WillReturnRows(sqlmock.NewRows([]string{"region", "revenue"}).
			AddRow("North", "900.25").
			AddRow("South", "100"))

	regions, err := repo.RevenueByRegion(context.Background())
	if err != nil {
		t.Fatalf("RevenueByRegion() error = %v", err)
	}
	want := []models.RegionRevenue{{Region: "North", Revenue: 900.25}, {Region: "South", Revenue: 100}}
	if len(regions) != len(want) {
		t.Fatalf("RevenueByRegion() = %v, want %v", regions, want)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("region %d = %+v, want %+v", i, regions[i], want[i])
		}
	}
}

func TestMonthlyRevenue(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`DATE_TRUNC\('month', transaction_date\)`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "monthly_revenue"}).
			AddRow(time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), "100").
			AddRow(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), "250.75"))

	got, err := repo.MonthlyRevenue(context.Background())
	if err != nil {
		t.Fatalf("MonthlyRevenue() error = %v", err)
	}
	want := []forecast.Observation{
		{Period: forecast.Period{Year: 2024, Month: time.November}, Revenue: 100},
		{Period: forecast.Period{Year: 2024, Month: time.December}, Revenue: 250.75},
	}
	if len(got) != len(want) {
		t.Fatalf("MonthlyRevenue() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("observation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthlyRevenue_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)
	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`DATE_TRUNC`).WillReturnError(dbErr)

	if _, err := repo.MonthlyRevenue(context.Background()); !errors.Is(err, dbErr) {
		t.Errorf("MonthlyRevenue() error = %v, want wrapped %v", err, dbErr)
	}
}

func TestCreateUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ana", "ana@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	user := &models.User{Username: "ana", Email: "ana@example.com", PasswordHash: "hash"}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID != 42 || !user.CreatedAt.Equal(created) {
		t.Errorf("CreateUser() user = %+v", user)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.CreateUser(context.Background(), &models.User{Email: "ana@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateUser() error = %v, want ErrDuplicate", err)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM users`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}))

	_, err := repo.FindUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FindUserByEmail() error = %v, want ErrNotFound", err)
	}
}
