package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/estatefolio/investor-dashboard/internal/model"
)

// GrowthRepository provides data access methods for the investment_growth table.
type GrowthRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewGrowthRepository creates a new GrowthRepository with the provided database connection.
func NewGrowthRepository(db *sql.DB) *GrowthRepository {
	return &GrowthRepository{db: db}
}

// WithTx returns a new GrowthRepository scoped to the provided transaction.
func (r *GrowthRepository) WithTx(tx *sql.Tx) *GrowthRepository {
	return &GrowthRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *GrowthRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetGrowth streams the growth points of an investor for years in [fromYear, toYear]
// in chronological order. The callback is invoked once per row; returning an error
// from it stops iteration and is passed back to the caller.
func (r *GrowthRepository) GetGrowth(
	ctx context.Context,
	investorID string,
	fromYear, toYear int,
	callback func(point model.GrowthPoint) error,
) error {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT investor_id, year, month_index, month, value, updated_at
		FROM investment_growth
		WHERE investor_id = ?
		AND year >= ?
		AND year <= ?
		ORDER BY year ASC, month_index ASC
	`, investorID, fromYear, toYear)
	if err != nil {
		return fmt.Errorf("failed to query investment_growth: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.GrowthPoint
		var updatedAt string

		err := rows.Scan(&p.InvestorID, &p.Year, &p.MonthIndex, &p.Month, &p.Value, &updatedAt)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		p.UpdatedAt, err = ParseTime(updatedAt)
		if err != nil {
			return fmt.Errorf("failed to parse updated_at: %w", err)
		}

		if err := callback(p); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

// GetGrowthForYear collects the growth points of a single year.
func (r *GrowthRepository) GetGrowthForYear(ctx context.Context, investorID string, year int) ([]model.GrowthPoint, error) {
	points := []model.GrowthPoint{}
	err := r.GetGrowth(ctx, investorID, year, year, func(p model.GrowthPoint) error {
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// UpsertGrowthPoints writes each point keyed on (investor, year, month index).
func (r *GrowthRepository) UpsertGrowthPoints(ctx context.Context, investorID string, points []model.GrowthPoint, updatedAt time.Time) error {
	for _, p := range points {
		_, err := r.getQuerier().ExecContext(ctx, `
			INSERT INTO investment_growth (investor_id, year, month_index, month, value, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(investor_id, year, month_index) DO UPDATE SET
				value = excluded.value,
				month = excluded.month,
				updated_at = excluded.updated_at
		`, investorID, p.Year, p.MonthIndex, p.Month, p.Value, FormatTime(updatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert investment_growth %d-%02d: %w", p.Year, p.MonthIndex+1, err)
		}
	}
	return nil
}
