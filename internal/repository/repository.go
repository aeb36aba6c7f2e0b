package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bizpulse/internal/forecast"
	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup matches no rows
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("already exists")
)

const uniqueViolation = "23505"

const (
	queryTotalRevenue = `
		SELECT COALESCE(SUM(amount), 0) AS total_revenue
		FROM transactions`

	queryCustomerKPIs = `
		SELECT
			COUNT(*) AS total_customers,
			COUNT(*) FILTER (WHERE is_active = TRUE) AS active_customers
		FROM customers`

	queryRevenueByRegion = `
		SELECT c.region, SUM(t.amount) AS revenue
		FROM transactions t
		JOIN customers c ON t.customer_id = c.customer_id
		GROUP BY c.region
		ORDER BY revenue DESC`

	queryMonthlyRevenue = `
		SELECT DATE_TRUNC('month', transaction_date) AS month,
			SUM(amount) AS monthly_revenue
		FROM transactions
		GROUP BY month
		ORDER BY month`
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping verifies the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// TotalRevenue sums the amount of every transaction
func (r *Repository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, queryTotalRevenue).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get total revenue: %w", err)
	}
	return total, nil
}

// CustomerKPIs counts all and active customers
func (r *Repository) CustomerKPIs(ctx context.Context) (*models.CustomerKPIs, error) {
	kpis := &models.CustomerKPIs{}
	err := r.db.QueryRowContext(ctx, queryCustomerKPIs).
		Scan(&kpis.TotalCustomers, &kpis.ActiveCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer kpis: %w", err)
	}
	return kpis, nil
}

// RevenueByRegion returns revenue per customer region, highest first
func (r *Repository) RevenueByRegion(ctx context.Context) ([]models.RegionRevenue, error) {
	rows, err := r.db.QueryContext(ctx, queryRevenueByRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by region: %w", err)
	}
	defer rows.Close()

	regions := []models.RegionRevenue{}
	for rows.Next() {
		var (
			region  string
			revenue decimal.Decimal
		)
		if err := rows.Scan(&region, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan region revenue: %w", err)
		}
		regions = append(regions, models.RegionRevenue{Region: region, Revenue: revenue.InexactFloat64()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate region revenue: %w", err)
	}
	return regions, nil
}

// MonthlyRevenue returns revenue aggregated by calendar month in ascending
// order. Months without transactions are absent from the result.
func (r *Repository) MonthlyRevenue(ctx context.Context) ([]forecast.Observation, error) {
	rows, err := r.db.QueryContext(ctx, queryMonthlyRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	var observations []forecast.Observation
	for rows.Next() {
		var (
			month   time.Time
			revenue decimal.Decimal
		)
		if err := rows.Scan(&month, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		observations = append(observations, forecast.Observation{
			Period:  forecast.NewPeriod(month),
			Revenue: revenue.InexactFloat64(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly revenue: %w", err)
	}
	return observations, nil
}

// CreateUser creates a new analyst in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves an analyst by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
