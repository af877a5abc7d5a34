package entities

import "time"

// Rental links one car to one customer. RentalEndDate stays empty until the
// car is returned.
type Rental struct {
	ID              string `json:"_id,omitempty"`
	CarID           string `json:"car_id"`
	CustomerID      string `json:"customer_id"`
	RentalStartDate string `json:"rental_start_date"`
	RentalEndDate   string `json:"rental_end_date"`
}

// RentedCar is a rental flattened with the car fields, as listed for a customer.
type RentedCar struct {
	RentalID        string  `json:"rental_id"`
	CarID           string  `json:"car_id"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	Type            CarType `json:"type"`
	RentalStartDate string  `json:"rental_start_date"`
	RentalEndDate   string  `json:"rental_end_date"`
}

// Open reports whether the car has not been returned yet.
func (r RentedCar) Open() bool {
	return r.RentalEndDate == ""
}

// StartedAt parses the RFC 3339 start date. The zero time is returned for
// missing or malformed values.
func (r RentedCar) StartedAt() time.Time {
	t, err := time.Parse(time.RFC3339, r.RentalStartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// OpenRentals filters out rentals that already have an end date.
func OpenRentals(rented []RentedCar) []RentedCar {
	out := make([]RentedCar, 0, len(rented))
	for _, r := range rented {
		if r.Open() {
			out = append(out, r)
		}
	}
	return out
}
