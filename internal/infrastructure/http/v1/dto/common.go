// Package dto defines request/response shapes for the v1 API.
package dto

// IDResponse returns created entity ID.
type IDResponse struct {
	ID int64 `json:"id"`
}

// SuccessResponse is a generic acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
