package dto

import "time"

// CreateSubscriptionRequest is the DTO for subscribing a user to a ticker.
type CreateSubscriptionRequest struct {
	UserEmail string  `json:"user_email"`
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
}

// UpdateSubscriptionRequest is the DTO for updating an existing
// subscription.
type UpdateSubscriptionRequest struct {
	Shares *float64 `json:"shares"`
	Active *bool    `json:"active"`
}

// SubscriptionResponse is the DTO for API responses containing subscription
// details.
type SubscriptionResponse struct {
	ID        uint      `json:"id"`
	UserEmail string    `json:"user_email"`
	Ticker    string    `json:"ticker"`
	Shares    float64   `json:"shares"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
