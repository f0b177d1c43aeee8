package request

// CreateInvestorRequest represents the request body for creating an investor
type CreateInvestorRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}
