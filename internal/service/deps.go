package service

import (
	"context"
	"log/slog"

	"carrental/internal/api"
	"carrental/internal/entities"
	"carrental/internal/mutation"
	"carrental/internal/querycache"
)

// AdminAPI is the part of the rental API the admin portal calls.
type AdminAPI interface {
	ListCars(ctx context.Context) ([]entities.Car, error)
	CreateCar(ctx context.Context, req entities.CreateCarRequest) (entities.Car, error)
	DeleteCar(ctx context.Context, id string) error
	CreateCustomer(ctx context.Context, req entities.CustomerRequest) (entities.Customer, error)
}

// CustomerAPI is the part of the rental API the customer portal calls.
type CustomerAPI interface {
	ListCars(ctx context.Context) ([]entities.Car, error)
	SignUp(ctx context.Context, req entities.CustomerRequest) (api.CustomerIDResponse, error)
	LogIn(ctx context.Context, req entities.LoginRequest) (api.CustomerIDResponse, error)
	ListCustomerRentals(ctx context.Context, customerID string) ([]entities.RentedCar, error)
	CreateRental(ctx context.Context, req entities.CreateRentalRequest) (entities.Rental, error)
	ReturnRental(ctx context.Context, rentalID string) (api.ReturnRentalResponse, error)
}

// API is implemented by *api.Client.
type API interface {
	AdminAPI
	CustomerAPI
}

var _ API = (*api.Client)(nil)

// Deps is built once at program start and shared by the services.
type Deps struct {
	Client   API
	Cache    *querycache.Cache
	Notifier mutation.Notifier
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
