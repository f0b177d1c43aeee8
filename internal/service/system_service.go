package service

import (
	"database/sql"
	"fmt"

	"github.com/estatefolio/investor-dashboard/internal/database"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersionInfo reports the application version and the applied schema version.
func (s *SystemService) GetVersionInfo() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
	}, nil
}
