package api

import "carrental/internal/entities"

// errorResponse is the error body convention of the rental API.
type errorResponse struct {
	Error string `json:"error"`
}

// CustomerIDResponse is returned by signup and login.
type CustomerIDResponse struct {
	CustomerID string `json:"customerId"`
}

// ReturnRentalResponse is the body of POST /api/rentals/{id}/return. Servers
// either echo the closed rental or only acknowledge with success.
type ReturnRentalResponse struct {
	Success bool `json:"success,omitempty"`
	entities.Rental
}
