package repository

import (
	"fmt"

	"carrental/internal/entities"
)

type CarRepository struct {
	DB *Store
}

func NewCarRepository(db *Store) *CarRepository {
	return &CarRepository{DB: db}
}

// ListCars returns every car in insertion order.
func (r *CarRepository) ListCars() []entities.Car {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	cars := make([]entities.Car, 0, len(r.DB.carOrder))
	for _, id := range r.DB.carOrder {
		cars = append(cars, *r.DB.cars[id])
	}
	return cars
}

func (r *CarRepository) GetCar(id string) (entities.Car, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	car, ok := r.DB.cars[id]
	if !ok {
		return entities.Car{}, fmt.Errorf("car %s: %w", id, ErrNotFound)
	}
	return *car, nil
}

func (r *CarRepository) CreateCar(req entities.CreateCarRequest) (entities.Car, error) {
	if req.Make == "" || req.Model == "" || req.Year == 0 || req.Type == "" {
		return entities.Car{}, fmt.Errorf("create car: %w", ErrInvalidInput)
	}

	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	car := &entities.Car{
		ID:        r.DB.newID(),
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		Type:      req.Type,
		Available: req.Available,
	}
	r.DB.cars[car.ID] = car
	r.DB.carOrder = append(r.DB.carOrder, car.ID)
	return *car, nil
}

func (r *CarRepository) DeleteCar(id string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	if _, ok := r.DB.cars[id]; !ok {
		return fmt.Errorf("car %s: %w", id, ErrNotFound)
	}
	delete(r.DB.cars, id)
	for i, existing := range r.DB.carOrder {
		if existing == id {
			r.DB.carOrder = append(r.DB.carOrder[:i], r.DB.carOrder[i+1:]...)
			break
		}
	}
	return nil
}
