package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// PropertyRepository provides data access methods for the property table.
type PropertyRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPropertyRepository creates a new PropertyRepository with the provided database connection.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// WithTx returns a new PropertyRepository scoped to the provided transaction.
func (r *PropertyRepository) WithTx(tx *sql.Tx) *PropertyRepository {
	return &PropertyRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PropertyRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const propertyColumns = `
	p.id, p.investor_id, p.location_id, p.name, p.price, p.roi_percentage,
	p.status, p.ownership_percentage, p.investment_type, p.created_at
`

// GetPropertiesByInvestor retrieves the properties of an investor in creation order.
// When countedOnly is set, sold properties are left out.
func (r *PropertyRepository) GetPropertiesByInvestor(ctx context.Context, investorID string, countedOnly bool) ([]model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM property p WHERE p.investor_id = ?`
	args := []any{investorID}

	if countedOnly {
		query += " AND p.status != ?"
		args = append(args, string(model.PropertyStatusSold))
	}
	query += " ORDER BY p.created_at ASC, p.id ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query property table: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property table: %w", err)
	}
	return properties, nil
}

// GetPropertyResponses retrieves an investor's properties joined with their location.
func (r *PropertyRepository) GetPropertyResponses(ctx context.Context, investorID string) ([]model.PropertyResponse, error) {
	query := `
		SELECT ` + propertyColumns + `, l.city, l.country
		FROM property p
		JOIN location l ON l.id = p.location_id
		WHERE p.investor_id = ?
		ORDER BY p.created_at ASC, p.id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property or location table: %w", err)
	}
	defer rows.Close()

	properties := []model.PropertyResponse{}
	for rows.Next() {
		var city, country string
		p, err := scanProperty(rows, &city, &country)
		if err != nil {
			return nil, err
		}
		properties = append(properties, model.PropertyResponse{
			Property:  p,
			City:      city,
			Country:   country,
			Ownership: p.Ownership(),
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property or location table: %w", err)
	}
	return properties, nil
}

// GetProperty retrieves a single property by ID.
// Returns ErrPropertyNotFound if no record with the given ID exists.
func (r *PropertyRepository) GetProperty(ctx context.Context, propertyID string) (model.Property, error) {
	if propertyID == "" {
		return model.Property{}, apperrors.ErrInvalidPropertyID
	}

	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM property p WHERE p.id = ?`, propertyID)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Property{}, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return model.Property{}, err
	}
	return p, nil
}

// CountProperties returns how many counted (not sold) properties the investor holds.
func (r *PropertyRepository) CountProperties(ctx context.Context, investorID string) (int, error) {
	var count int
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM property WHERE investor_id = ? AND status != ?`,
		investorID, string(model.PropertyStatusSold),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// InsertProperty creates a new property row.
func (r *PropertyRepository) InsertProperty(ctx context.Context, p *model.Property) error {
	query := `
		INSERT INTO property (id, investor_id, location_id, name, price, roi_percentage,
			status, ownership_percentage, investment_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.InvestorID,
		p.LocationID,
		p.Name,
		p.Price,
		nullFloat(p.RoiPercentage),
		string(p.Status),
		nullFloat(p.OwnershipPercentage),
		string(p.InvestmentType),
		FormatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// UpdateProperty overwrites the mutable fields of a property.
// Returns ErrPropertyNotFound if no record with the given ID exists.
func (r *PropertyRepository) UpdateProperty(ctx context.Context, p *model.Property) error {
	query := `
		UPDATE property
		SET location_id = ?, name = ?, price = ?, roi_percentage = ?, status = ?,
			ownership_percentage = ?, investment_type = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.LocationID,
		p.Name,
		p.Price,
		nullFloat(p.RoiPercentage),
		string(p.Status),
		nullFloat(p.OwnershipPercentage),
		string(p.InvestmentType),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPropertyNotFound
	}
	return nil
}

func scanProperty(row rowScanner, extra ...any) (model.Property, error) {
	var p model.Property
	var roi, ownership sql.NullFloat64
	var status, investmentType, createdAt string

	dest := []any{
		&p.ID, &p.InvestorID, &p.LocationID, &p.Name, &p.Price, &roi,
		&status, &ownership, &investmentType, &createdAt,
	}
	dest = append(dest, extra...)

	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Property{}, err
	}
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to scan property table results: %w", err)
	}

	p.RoiPercentage = floatPtr(roi)
	p.OwnershipPercentage = floatPtr(ownership)
	p.Status = model.PropertyStatus(status)
	p.InvestmentType = model.InvestmentType(investmentType)
	p.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return p, nil
}
