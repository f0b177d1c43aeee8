package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// SummaryRepository provides data access methods for the investment_summary,
// roi_summary and investment_ledger tables.
type SummaryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSummaryRepository creates a new SummaryRepository with the provided database connection.
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// WithTx returns a new SummaryRepository scoped to the provided transaction.
func (r *SummaryRepository) WithTx(tx *sql.Tx) *SummaryRepository {
	return &SummaryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SummaryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetInvestmentSummary retrieves the stored investment summary of an investor.
// Returns ErrSummaryNotFound when none has been written yet.
func (r *SummaryRepository) GetInvestmentSummary(ctx context.Context, investorID string) (model.InvestmentSummary, error) {
	var s model.InvestmentSummary
	var updatedAt string

	err := r.getQuerier().QueryRowContext(ctx, `
		SELECT investor_id, total_investment, percent_change, updated_at
		FROM investment_summary
		WHERE investor_id = ?
	`, investorID).Scan(&s.InvestorID, &s.TotalInvestment, &s.PercentChange, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InvestmentSummary{}, apperrors.ErrSummaryNotFound
	}
	if err != nil {
		return model.InvestmentSummary{}, fmt.Errorf("failed to query investment_summary: %w", err)
	}

	s.UpdatedAt, err = ParseTime(updatedAt)
	if err != nil {
		return model.InvestmentSummary{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return s, nil
}

// UpsertInvestmentSummary replaces the investor's investment summary row.
func (r *SummaryRepository) UpsertInvestmentSummary(ctx context.Context, s model.InvestmentSummary) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO investment_summary (investor_id, total_investment, percent_change, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(investor_id) DO UPDATE SET
			total_investment = excluded.total_investment,
			percent_change = excluded.percent_change,
			updated_at = excluded.updated_at
	`, s.InvestorID, s.TotalInvestment, s.PercentChange, FormatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert investment_summary: %w", err)
	}
	return nil
}

// GetRoiSummary retrieves the stored ROI summary of an investor.
// Returns ErrSummaryNotFound when none has been written yet.
func (r *SummaryRepository) GetRoiSummary(ctx context.Context, investorID string) (model.RoiSummary, error) {
	var s model.RoiSummary
	var updatedAt string

	err := r.getQuerier().QueryRowContext(ctx, `
		SELECT investor_id, average_roi, roi_change, updated_at
		FROM roi_summary
		WHERE investor_id = ?
	`, investorID).Scan(&s.InvestorID, &s.AverageRoi, &s.RoiChange, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoiSummary{}, apperrors.ErrSummaryNotFound
	}
	if err != nil {
		return model.RoiSummary{}, fmt.Errorf("failed to query roi_summary: %w", err)
	}

	s.UpdatedAt, err = ParseTime(updatedAt)
	if err != nil {
		return model.RoiSummary{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return s, nil
}

// UpsertRoiSummary replaces the investor's ROI summary row.
func (r *SummaryRepository) UpsertRoiSummary(ctx context.Context, s model.RoiSummary) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO roi_summary (investor_id, average_roi, roi_change, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(investor_id) DO UPDATE SET
			average_roi = excluded.average_roi,
			roi_change = excluded.roi_change,
			updated_at = excluded.updated_at
	`, s.InvestorID, s.AverageRoi, s.RoiChange, FormatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert roi_summary: %w", err)
	}
	return nil
}

// InsertLedgerEntry appends a snapshot to the investment ledger.
func (r *SummaryRepository) InsertLedgerEntry(ctx context.Context, e model.LedgerEntry) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO investment_ledger (id, investor_id, total_investment, average_roi, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.InvestorID, e.TotalInvestment, e.AverageRoi, FormatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("failed to insert investment_ledger entry: %w", err)
	}
	return nil
}

// GetLedger retrieves ledger entries of an investor recorded within [from, to], oldest first.
// A zero from or to leaves that side of the range open.
func (r *SummaryRepository) GetLedger(ctx context.Context, investorID string, from, to time.Time) ([]model.LedgerEntry, error) {
	query := `
		SELECT id, investor_id, total_investment, average_roi, recorded_at
		FROM investment_ledger
		WHERE investor_id = ?
	`
	args := []any{investorID}
	if !from.IsZero() {
		query += " AND recorded_at >= ?"
		args = append(args, FormatTime(from))
	}
	if !to.IsZero() {
		query += " AND recorded_at <= ?"
		args = append(args, FormatTime(to))
	}
	query += " ORDER BY recorded_at ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment_ledger: %w", err)
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}
	for rows.Next() {
		var e model.LedgerEntry
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.InvestorID, &e.TotalInvestment, &e.AverageRoi, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investment_ledger results: %w", err)
		}
		e.RecordedAt, err = ParseTime(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment_ledger: %w", err)
	}
	return entries, nil
}
