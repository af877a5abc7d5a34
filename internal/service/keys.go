package service

import "carrental/internal/querycache"

// Query resources cached by the portals.
const (
	QueryCars       = "cars"
	QueryRentedCars = "rentedCars"
)

func CarsKey() querycache.Key {
	return querycache.NewKey(QueryCars)
}

// RentedCarsKey is the key of one customer's rentals.
func RentedCarsKey(customerID string) querycache.Key {
	return querycache.NewKey(QueryRentedCars, customerID)
}
