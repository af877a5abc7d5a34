package entities

// CreateRentalRequest is the body of POST /api/rentals/create.
type CreateRentalRequest struct {
	CarID      string `json:"car_id"`
	CustomerID string `json:"customer_id"`
}
