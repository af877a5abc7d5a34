package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carrental/internal/entities"
	"carrental/internal/mutation"
	"carrental/internal/querycache"
)

// CarListView is what the admin car table renders.
type CarListView struct {
	Cars    []entities.Car
	Loading bool
	Err     error
	// Deleting is the id of the car whose delete is in flight.
	Deleting  string
	UpdatedAt time.Time
}

type AdminService struct {
	client AdminAPI
	cache  *querycache.Cache
	logger *slog.Logger

	addCar         *mutation.Coordinator[entities.CreateCarRequest, entities.Car]
	deleteCar      *mutation.Coordinator[string, struct{}]
	submitCustomer *mutation.Coordinator[entities.CustomerRequest, entities.Customer]
}

func NewAdminService(deps Deps) *AdminService {
	s := &AdminService{
		client: deps.Client,
		cache:  deps.Cache,
		logger: deps.logger(),
	}
	invalidateCars := func() []querycache.Key { return []querycache.Key{CarsKey()} }

	s.addCar = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[entities.CreateCarRequest, entities.Car]{
		Name: "addCar",
		Do:   s.client.CreateCar,
		Invalidates: func(entities.CreateCarRequest, entities.Car) []querycache.Key {
			return invalidateCars()
		},
		SuccessTitle: "Car added successfully",
		ErrorTitle:   "Failed to add car",
	})
	s.deleteCar = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[string, struct{}]{
		Name: "deleteCar",
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.client.DeleteCar(ctx, id)
		},
		Target: func(id string) string { return id },
		Invalidates: func(string, struct{}) []querycache.Key {
			return invalidateCars()
		},
		SuccessTitle: "Car deleted successfully",
		ErrorTitle:   "Failed to delete car",
	})
	s.submitCustomer = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[entities.CustomerRequest, entities.Customer]{
		Name:         "submitCustomer",
		Do:           s.client.CreateCustomer,
		SuccessTitle: "Customer information submitted successfully!",
		ErrorTitle:   "Failed to submit customer",
	})
	return s
}

func (s *AdminService) fetchCars(ctx context.Context) (any, error) {
	cars, err := s.client.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// CarList loads the car list, refetching it when it was invalidated.
func (s *AdminService) CarList(ctx context.Context) CarListView {
	st, _ := s.cache.Load(ctx, CarsKey(), s.fetchCars)
	return s.CarListFromState(st)
}

// SubscribeCars keeps the car list fresh until the subscription is closed.
func (s *AdminService) SubscribeCars() *querycache.Subscription {
	return s.cache.Subscribe(CarsKey(), s.fetchCars)
}

// CarListFromState converts a cached state of the car list into its view.
func (s *AdminService) CarListFromState(st querycache.State) CarListView {
	cars, _ := querycache.Data[[]entities.Car](st)
	return CarListView{
		Cars:      cars,
		Loading:   st.Loading,
		Err:       st.Err,
		Deleting:  s.deleteCar.Marker(),
		UpdatedAt: st.UpdatedAt,
	}
}

// AddCar validates the form and creates the car. Validation failures are
// returned before any request is sent.
func (s *AdminService) AddCar(ctx context.Context, form entities.CarForm) (entities.Car, error) {
	req, err := form.Request()
	if err != nil {
		return entities.Car{}, err
	}
	car, err := s.addCar.Run(ctx, req)
	if err != nil {
		return entities.Car{}, fmt.Errorf("add car: %w", err)
	}
	return car, nil
}

func (s *AdminService) DeleteCar(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete car: empty id")
	}
	if _, err := s.deleteCar.Run(ctx, id); err != nil {
		return fmt.Errorf("delete car %s: %w", id, err)
	}
	return nil
}

// SubmitCustomer sends a customer record entered by staff.
func (s *AdminService) SubmitCustomer(ctx context.Context, form entities.CustomerForm) (entities.Customer, error) {
	req, err := form.Request()
	if err != nil {
		return entities.Customer{}, err
	}
	customer, err := s.submitCustomer.Run(ctx, req)
	if err != nil {
		return entities.Customer{}, fmt.Errorf("submit customer: %w", err)
	}
	return customer, nil
}

// Mutations reports the status of each admin action.
func (s *AdminService) Mutations() []mutation.Snapshot {
	return []mutation.Snapshot{
		s.addCar.Snapshot(),
		s.deleteCar.Snapshot(),
		s.submitCustomer.Snapshot(),
	}
}
