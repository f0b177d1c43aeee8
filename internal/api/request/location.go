package request

// CreateLocationRequest represents the request body for creating a location
type CreateLocationRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
}
