package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// LocationRepository provides data access methods for the location table.
// It backs the location resolver used by the allocation aggregator.
type LocationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewLocationRepository creates a new LocationRepository with the provided database connection.
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// WithTx returns a new LocationRepository scoped to the provided transaction.
func (r *LocationRepository) WithTx(tx *sql.Tx) *LocationRepository {
	return &LocationRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *LocationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetLocations retrieves all locations ordered by country and city.
func (r *LocationRepository) GetLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, city, country
		FROM location
		ORDER BY country ASC, city ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location table: %w", err)
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.City, &l.Country); err != nil {
			return nil, fmt.Errorf("failed to scan location table results: %w", err)
		}
		locations = append(locations, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location table: %w", err)
	}
	return locations, nil
}

// GetLocation retrieves a single location by ID.
// Returns ErrLocationNotFound if no record with the given ID exists.
func (r *LocationRepository) GetLocation(ctx context.Context, locationID string) (model.Location, error) {
	var l model.Location
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, city, country FROM location WHERE id = ?`, locationID,
	).Scan(&l.ID, &l.City, &l.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, apperrors.ErrLocationNotFound
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("failed to query location: %w", err)
	}
	return l, nil
}

// FindLocation looks a location up by its natural key.
// Returns ErrLocationNotFound when the pair is unknown.
func (r *LocationRepository) FindLocation(ctx context.Context, city, country string) (model.Location, error) {
	var l model.Location
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, city, country FROM location WHERE city = ? AND country = ?`, city, country,
	).Scan(&l.ID, &l.City, &l.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, apperrors.ErrLocationNotFound
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("failed to query location: %w", err)
	}
	return l, nil
}

// InsertLocation creates a new location.
// Returns ErrDuplicateEntry when the city/country pair already exists.
func (r *LocationRepository) InsertLocation(ctx context.Context, l *model.Location) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO location (id, city, country) VALUES (?, ?, ?)`,
		l.ID, l.City, l.Country,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: location %s, %s", apperrors.ErrDuplicateEntry, l.City, l.Country)
	}
	if err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

// ResolveCountries maps each location ID to its country name.
// IDs that do not exist are simply absent from the result.
func (r *LocationRepository) ResolveCountries(ctx context.Context, locationIDs []string) (map[string]string, error) {
	countries := make(map[string]string, len(locationIDs))
	if len(locationIDs) == 0 {
		return countries, nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT id, country FROM location WHERE id IN (` + placeholders(len(locationIDs)) + `)`

	args := make([]any, len(locationIDs))
	for i, id := range locationIDs {
		args[i] = id
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query location table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, country string
		if err := rows.Scan(&id, &country); err != nil {
			return nil, fmt.Errorf("failed to scan location table results: %w", err)
		}
		countries[id] = country
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location table: %w", err)
	}
	return countries, nil
}
