package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// InvestorRepository provides data access methods for the investor table.
// It is also the profile store holding each investor's persisted level.
type InvestorRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestorRepository creates a new InvestorRepository with the provided database connection.
func NewInvestorRepository(db *sql.DB) *InvestorRepository {
	return &InvestorRepository{db: db}
}

// WithTx returns a new InvestorRepository scoped to the provided transaction.
func (r *InvestorRepository) WithTx(tx *sql.Tx) *InvestorRepository {
	return &InvestorRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *InvestorRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetInvestors retrieves all investors ordered by name.
// Returns an empty slice when there are none.
func (r *InvestorRepository) GetInvestors(ctx context.Context) ([]model.Investor, error) {
	query := `
		SELECT id, name, email, is_verified, level, created_at
		FROM investor
		ORDER BY name ASC, id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query investor table: %w", err)
	}
	defer rows.Close()

	investors := []model.Investor{}
	for rows.Next() {
		i, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, i)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investor table: %w", err)
	}

	return investors, nil
}

// GetInvestorIDs returns the IDs of every investor.
func (r *InvestorRepository) GetInvestorIDs(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT id FROM investor ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investor ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan investor id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investor ids: %w", err)
	}
	return ids, nil
}

// GetInvestor retrieves a single investor by ID.
// Returns ErrInvestorNotFound if no record with the given ID exists.
func (r *InvestorRepository) GetInvestor(ctx context.Context, investorID string) (model.Investor, error) {
	if investorID == "" {
		return model.Investor{}, apperrors.ErrInvalidInvestorID
	}

	query := `
		SELECT id, name, email, is_verified, level, created_at
		FROM investor
		WHERE id = ?
	`

	i, err := scanInvestor(r.getQuerier().QueryRowContext(ctx, query, investorID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investor{}, apperrors.ErrInvestorNotFound
	}
	if err != nil {
		return model.Investor{}, err
	}
	return i, nil
}

// InsertInvestor creates a new investor.
// Returns ErrDuplicateEntry when the email is already registered.
func (r *InvestorRepository) InsertInvestor(ctx context.Context, i *model.Investor) error {
	query := `
		INSERT INTO investor (id, name, email, is_verified, level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		i.ID,
		i.Name,
		i.Email,
		i.IsVerified,
		string(i.Level),
		FormatTime(i.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: investor email %s", apperrors.ErrDuplicateEntry, i.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to insert investor: %w", err)
	}
	return nil
}

// UpdateInvestorLevel persists the tier label on the investor profile.
func (r *InvestorRepository) UpdateInvestorLevel(ctx context.Context, investorID string, level model.InvestorLevel) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE investor SET level = ? WHERE id = ?`,
		string(level), investorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investor level: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrInvestorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestor(row rowScanner) (model.Investor, error) {
	var i model.Investor
	var level, createdAt string

	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.IsVerified, &level, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investor{}, err
	}
	if err != nil {
		return model.Investor{}, fmt.Errorf("failed to scan investor table results: %w", err)
	}

	i.Level = model.InvestorLevel(level)
	i.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.Investor{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return i, nil
}
