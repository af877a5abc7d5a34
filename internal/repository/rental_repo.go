package repository

import (
	"fmt"
	"log"

	"carrental/internal/entities"
)

type RentalRepository struct {
	DB *Store
}

func NewRentalRepository(db *Store) *RentalRepository {
	return &RentalRepository{DB: db}
}

// CreateRental opens a rental and marks the car unavailable in one step.
// Renting a car that is already out fails with ErrConflict.
func (r *RentalRepository) CreateRental(req entities.CreateRentalRequest) (entities.Rental, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	car, ok := r.DB.cars[req.CarID]
	if !ok {
		return entities.Rental{}, fmt.Errorf("car %s: %w", req.CarID, ErrNotFound)
	}
	if _, ok := r.DB.customers[req.CustomerID]; !ok {
		return entities.Rental{}, fmt.Errorf("customer %s: %w", req.CustomerID, ErrNotFound)
	}
	if !car.Available {
		return entities.Rental{}, fmt.Errorf("car %s: %w", req.CarID, ErrConflict)
	}

	rental := &entities.Rental{
		ID:              r.DB.newID(),
		CarID:           req.CarID,
		CustomerID:      req.CustomerID,
		RentalStartDate: r.DB.timestamp(),
	}
	r.DB.rentals[rental.ID] = rental
	r.DB.rentOrder = append(r.DB.rentOrder, rental.ID)
	car.Available = false
	return *rental, nil
}

// ReturnRental sets the end date once and frees the car.
func (r *RentalRepository) ReturnRental(id string) (entities.Rental, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	rental, ok := r.DB.rentals[id]
	if !ok {
		return entities.Rental{}, fmt.Errorf("rental %s: %w", id, ErrNotFound)
	}
	if rental.RentalEndDate != "" {
		return entities.Rental{}, fmt.Errorf("rental %s already returned: %w", id, ErrConflict)
	}
	rental.RentalEndDate = r.DB.timestamp()
	if car, ok := r.DB.cars[rental.CarID]; ok {
		car.Available = true
	}
	return *rental, nil
}

// ListCustomerRentals flattens each rental of the customer with its car.
// Rentals whose car has since been deleted are skipped.
func (r *RentalRepository) ListCustomerRentals(customerID string) ([]entities.RentedCar, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	if _, ok := r.DB.customers[customerID]; !ok {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}

	rented := []entities.RentedCar{}
	for _, id := range r.DB.rentOrder {
		rental := r.DB.rentals[id]
		if rental.CustomerID != customerID {
			continue
		}
		car, ok := r.DB.cars[rental.CarID]
		if !ok {
			log.Printf("Skipping rental %s: car %s no longer exists", rental.ID, rental.CarID)
			continue
		}
		rented = append(rented, entities.RentedCar{
			RentalID:        rental.ID,
			CarID:           car.ID,
			Make:            car.Make,
			Model:           car.Model,
			Year:            car.Year,
			Type:            car.Type,
			RentalStartDate: rental.RentalStartDate,
			RentalEndDate:   rental.RentalEndDate,
		})
	}
	return rented, nil
}
