package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInvestorNotFound indicates that an investor with the given ID does not exist.
	ErrInvestorNotFound = errors.New("investor not found")

	// ErrPropertyNotFound indicates that a property with the given ID does not exist.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrLocationNotFound indicates that a location with the given ID does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrSummaryNotFound indicates that no derived summary row has been written for the investor yet.
	ErrSummaryNotFound = errors.New("summary not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidMonth indicates a month index outside 0-11.
	ErrInvalidMonth = errors.New("month index must be between 0 and 11")

	ErrInvalidInvestorID = errors.New("investor ID is required")
	ErrInvalidPropertyID = errors.New("property ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Investor operation errors
	ErrFailedToRetrieveInvestors = errors.New("failed to retrieve investors")
	ErrFailedToRetrieveInvestor  = errors.New("failed to retrieve investor")
	ErrFailedToCreateInvestor    = errors.New("failed to create investor")

	// Property operation errors
	ErrFailedToRetrieveProperties = errors.New("failed to retrieve properties")
	ErrFailedToRetrieveProperty   = errors.New("failed to retrieve property")
	ErrFailedToCreateProperty     = errors.New("failed to create property")
	ErrFailedToUpdateProperty     = errors.New("failed to update property")

	// Location operation errors
	ErrFailedToRetrieveLocations = errors.New("failed to retrieve locations")
	ErrFailedToCreateLocation    = errors.New("failed to create location")

	// Aggregation errors
	ErrAggregationFailed        = errors.New("portfolio aggregation failed")
	ErrFailedToGetDashboard     = errors.New("failed to get dashboard")
	ErrFailedToRetrieveGrowth   = errors.New("failed to retrieve growth history")
	ErrFailedToRetrieveAlloc    = errors.New("failed to retrieve allocation")
	ErrFailedToRetrieveLedger   = errors.New("failed to retrieve ledger")
	ErrFailedToImportProperties = errors.New("failed to import properties")
	ErrInvalidCSVHeaders        = errors.New("invalid CSV headers")
	ErrFailedToGetVersionInfo   = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a property references a location that does not exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
