package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/estatefolio/investor-dashboard/internal/model"
)

// AllocationRepository provides data access methods for the portfolio_allocation table.
type AllocationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAllocationRepository creates a new AllocationRepository with the provided database connection.
func NewAllocationRepository(db *sql.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// WithTx returns a new AllocationRepository scoped to the provided transaction.
func (r *AllocationRepository) WithTx(tx *sql.Tx) *AllocationRepository {
	return &AllocationRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AllocationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAllocation retrieves the stored allocation rows of an investor,
// largest share first.
func (r *AllocationRepository) GetAllocation(ctx context.Context, investorID string) ([]model.AllocationEntry, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT investor_id, country, percentage, updated_at
		FROM portfolio_allocation
		WHERE investor_id = ?
		ORDER BY percentage DESC, country ASC
	`, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_allocation: %w", err)
	}
	defer rows.Close()

	entries := []model.AllocationEntry{}
	for rows.Next() {
		var e model.AllocationEntry
		var updatedAt string
		if err := rows.Scan(&e.InvestorID, &e.Country, &e.Percentage, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_allocation results: %w", err)
		}
		e.UpdatedAt, err = ParseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_allocation: %w", err)
	}
	return entries, nil
}

// UpsertAllocation writes one row per entry keyed on (investor, country).
func (r *AllocationRepository) UpsertAllocation(ctx context.Context, investorID string, entries []model.AllocationEntry, updatedAt time.Time) error {
	for _, e := range entries {
		_, err := r.getQuerier().ExecContext(ctx, `
			INSERT INTO portfolio_allocation (investor_id, country, percentage, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(investor_id, country) DO UPDATE SET
				percentage = excluded.percentage,
				updated_at = excluded.updated_at
		`, investorID, e.Country, e.Percentage, FormatTime(updatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert portfolio_allocation for %s: %w", e.Country, err)
		}
	}
	return nil
}

// DeleteAllocation removes the given countries from the investor's allocation.
func (r *AllocationRepository) DeleteAllocation(ctx context.Context, investorID string, countries []string) error {
	if len(countries) == 0 {
		return nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `DELETE FROM portfolio_allocation WHERE investor_id = ? AND country IN (` + placeholders(len(countries)) + `)`

	args := make([]any, 0, len(countries)+1)
	args = append(args, investorID)
	for _, c := range countries {
		args = append(args, c)
	}

	if _, err := r.getQuerier().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete portfolio_allocation rows: %w", err)
	}
	return nil
}
