// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// MessageResponse is the error body shared by every endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// SuccessResponse acknowledges cookie operations.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// IssueTokenRequest is the body of POST /jwt.
type IssueTokenRequest struct {
	Email string `json:"email"`
}

// ApplyRequest is the body of POST /apply.
type ApplyRequest struct {
	JobID     string `json:"jobId"`
	UserEmail string `json:"user_email"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Resume    string `json:"resume,omitempty"`
}

// ApplyResponse reports the ID of a stored application.
type ApplyResponse struct {
	InsertedID string `json:"insertedId"`
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
// Price is in dollars.
type PaymentIntentRequest struct {
	Price *float64 `json:"price"`
}

// PaymentIntentResponse hands the client secret to the browser checkout.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
