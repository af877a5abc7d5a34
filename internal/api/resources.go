package api

import (
	"context"
	"net/http"
	"net/url"

	"carrental/internal/entities"
)

// Resource collections.
const (
	ResourceCars      = "cars"
	ResourceCustomers = "customers"
	ResourceRentals   = "rentals"
)

func (c *Client) ListCars(ctx context.Context) ([]entities.Car, error) {
	var cars []entities.Car
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: ResourceCars, Credentials: c.adminReads}, &cars)
	return cars, err
}

func (c *Client) CreateCar(ctx context.Context, req entities.CreateCarRequest) (entities.Car, error) {
	var car entities.Car
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceCars, Body: req, Credentials: true}, &car)
	return car, err
}

func (c *Client) DeleteCar(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: ResourceCars + "/" + url.PathEscape(id), Credentials: true}, nil)
}

// CreateCustomer submits a customer record from the admin portal.
func (c *Client) CreateCustomer(ctx context.Context, req entities.CustomerRequest) (entities.Customer, error) {
	var customer entities.Customer
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceCustomers, Body: req, Credentials: true}, &customer)
	return customer, err
}

func (c *Client) SignUp(ctx context.Context, req entities.CustomerRequest) (CustomerIDResponse, error) {
	var resp CustomerIDResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceCustomers + "/signup", Body: req}, &resp)
	return resp, err
}

func (c *Client) LogIn(ctx context.Context, req entities.LoginRequest) (CustomerIDResponse, error) {
	var resp CustomerIDResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceCustomers + "/login", Body: req}, &resp)
	return resp, err
}

// ListCustomerRentals returns every rental of the customer, open or closed.
func (c *Client) ListCustomerRentals(ctx context.Context, customerID string) ([]entities.RentedCar, error) {
	var rented []entities.RentedCar
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: ResourceRentals + "/customer/" + url.PathEscape(customerID)}, &rented)
	return rented, err
}

func (c *Client) CreateRental(ctx context.Context, req entities.CreateRentalRequest) (entities.Rental, error) {
	var rental entities.Rental
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceRentals + "/create", Body: req}, &rental)
	return rental, err
}

func (c *Client) ReturnRental(ctx context.Context, rentalID string) (ReturnRentalResponse, error) {
	var resp ReturnRentalResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: ResourceRentals + "/" + url.PathEscape(rentalID) + "/return"}, &resp)
	return resp, err
}
