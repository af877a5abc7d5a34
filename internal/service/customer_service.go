package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"carrental/internal/api"
	"carrental/internal/entities"
	"carrental/internal/mutation"
	"carrental/internal/querycache"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// ErrNotLoggedIn is returned by actions that need a customer session.
var ErrNotLoggedIn = errors.New("not logged in")

// DashboardView is the customer's page: cars that can be rented and the
// cars the customer currently has.
type DashboardView struct {
	CustomerID string
	Available  []entities.Car
	Rented     []entities.RentedCar
	Loading    bool
	CarsErr    error
	RentedErr  error
	// Err combines CarsErr and RentedErr.
	Err error
	// Renting and Returning are the markers of in-flight rent and return
	// requests: a car id and a rental id.
	Renting   string
	Returning string
}

type returnInput struct {
	RentalID   string
	CustomerID string
}

type CustomerService struct {
	client CustomerAPI
	cache  *querycache.Cache
	logger *slog.Logger

	mu         sync.Mutex
	customerID string

	signUp *mutation.Coordinator[entities.CustomerRequest, api.CustomerIDResponse]
	logIn  *mutation.Coordinator[entities.LoginRequest, api.CustomerIDResponse]
	rent   *mutation.Coordinator[entities.CreateRentalRequest, entities.Rental]
	ret    *mutation.Coordinator[returnInput, api.ReturnRentalResponse]
}

func NewCustomerService(deps Deps) *CustomerService {
	s := &CustomerService{
		client: deps.Client,
		cache:  deps.Cache,
		logger: deps.logger(),
	}
	s.signUp = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[entities.CustomerRequest, api.CustomerIDResponse]{
		Name: "signUp",
		Do:   s.client.SignUp,
		OnSuccess: func(_ entities.CustomerRequest, out api.CustomerIDResponse) {
			s.setCustomerID(out.CustomerID)
		},
		SuccessTitle: "Signed up successfully",
		ErrorTitle:   "Failed to sign up",
	})
	s.logIn = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[entities.LoginRequest, api.CustomerIDResponse]{
		Name: "logIn",
		Do:   s.client.LogIn,
		OnSuccess: func(_ entities.LoginRequest, out api.CustomerIDResponse) {
			s.setCustomerID(out.CustomerID)
		},
		SuccessTitle: "Logged in successfully",
		ErrorTitle:   "Failed to log in",
	})
	s.rent = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[entities.CreateRentalRequest, entities.Rental]{
		Name:   "rentCar",
		Do:     s.client.CreateRental,
		Target: func(in entities.CreateRentalRequest) string { return in.CarID },
		Invalidates: func(in entities.CreateRentalRequest, _ entities.Rental) []querycache.Key {
			return []querycache.Key{CarsKey(), RentedCarsKey(in.CustomerID)}
		},
		SuccessTitle: "Car rented successfully",
		ErrorTitle:   "Failed to rent car",
	})
	s.ret = mutation.New(deps.Cache, deps.Notifier, s.logger, mutation.Options[returnInput, api.ReturnRentalResponse]{
		Name: "returnCar",
		Do: func(ctx context.Context, in returnInput) (api.ReturnRentalResponse, error) {
			return s.client.ReturnRental(ctx, in.RentalID)
		},
		Target: func(in returnInput) string { return in.RentalID },
		Invalidates: func(in returnInput, _ api.ReturnRentalResponse) []querycache.Key {
			return []querycache.Key{CarsKey(), RentedCarsKey(in.CustomerID)}
		},
		SuccessTitle: "Car returned successfully",
		ErrorTitle:   "Failed to return car",
	})
	return s
}

func (s *CustomerService) setCustomerID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = id
}

// CustomerID returns the id of the logged in customer, or "".
func (s *CustomerService) CustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerID
}

func (s *CustomerService) LoggedIn() bool {
	return s.CustomerID() != ""
}

// UseCustomer resumes a session for a known customer id.
func (s *CustomerService) UseCustomer(id string) {
	s.setCustomerID(id)
}

func (s *CustomerService) LogOut() {
	s.setCustomerID("")
}

// SignUp registers the customer and starts a session for it.
func (s *CustomerService) SignUp(ctx context.Context, form entities.CustomerForm) (string, error) {
	req, err := form.Request()
	if err != nil {
		return "", err
	}
	resp, err := s.signUp.Run(ctx, req)
	if err != nil {
		return "", fmt.Errorf("sign up: %w", err)
	}
	return resp.CustomerID, nil
}

func (s *CustomerService) LogIn(ctx context.Context, name, email string) (string, error) {
	req, err := entities.CustomerForm{Name: name, Email: email}.LoginRequest()
	if err != nil {
		return "", err
	}
	resp, err := s.logIn.Run(ctx, req)
	if err != nil {
		return "", fmt.Errorf("log in: %w", err)
	}
	return resp.CustomerID, nil
}

func (s *CustomerService) fetchCars(ctx context.Context) (any, error) {
	cars, err := s.client.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (s *CustomerService) rentedFetcher(customerID string) querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		rented, err := s.client.ListCustomerRentals(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return rented, nil
	}
}

// Dashboard loads the car list and the customer's rentals at the same time.
// A failure of one query does not hide the other.
func (s *CustomerService) Dashboard(ctx context.Context) (DashboardView, error) {
	customerID := s.CustomerID()
	if customerID == "" {
		return DashboardView{}, ErrNotLoggedIn
	}

	var carsState, rentedState querycache.State
	var g errgroup.Group
	g.Go(func() error {
		var err error
		carsState, err = s.cache.Load(ctx, CarsKey(), s.fetchCars)
		return err
	})
	g.Go(func() error {
		var err error
		rentedState, err = s.cache.Load(ctx, RentedCarsKey(customerID), s.rentedFetcher(customerID))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Debug("dashboard query failed", "customer", customerID, "err", err)
	}
	return s.dashboardView(customerID, carsState, rentedState), nil
}

func (s *CustomerService) dashboardView(customerID string, carsState, rentedState querycache.State) DashboardView {
	cars, _ := querycache.Data[[]entities.Car](carsState)
	rented, _ := querycache.Data[[]entities.RentedCar](rentedState)

	view := DashboardView{
		CustomerID: customerID,
		Available:  entities.AvailableCars(cars),
		Rented:     entities.OpenRentals(rented),
		Loading:    carsState.Loading || rentedState.Loading,
		CarsErr:    carsState.Err,
		RentedErr:  rentedState.Err,
		Renting:    s.rent.Marker(),
		Returning:  s.ret.Marker(),
	}
	var merr *multierror.Error
	if view.CarsErr != nil {
		merr = multierror.Append(merr, fmt.Errorf("cars: %w", view.CarsErr))
	}
	if view.RentedErr != nil {
		merr = multierror.Append(merr, fmt.Errorf("rented cars: %w", view.RentedErr))
	}
	view.Err = merr.ErrorOrNil()
	return view
}

// RentCar rents carID for the logged in customer.
func (s *CustomerService) RentCar(ctx context.Context, carID string) (entities.Rental, error) {
	customerID := s.CustomerID()
	if customerID == "" {
		return entities.Rental{}, ErrNotLoggedIn
	}
	rental, err := s.rent.Run(ctx, entities.CreateRentalRequest{CarID: carID, CustomerID: customerID})
	if err != nil {
		return entities.Rental{}, fmt.Errorf("rent car %s: %w", carID, err)
	}
	return rental, nil
}

func (s *CustomerService) ReturnCar(ctx context.Context, rentalID string) error {
	customerID := s.CustomerID()
	if customerID == "" {
		return ErrNotLoggedIn
	}
	if _, err := s.ret.Run(ctx, returnInput{RentalID: rentalID, CustomerID: customerID}); err != nil {
		return fmt.Errorf("return rental %s: %w", rentalID, err)
	}
	return nil
}

func (s *CustomerService) Mutations() []mutation.Snapshot {
	return []mutation.Snapshot{
		s.signUp.Snapshot(),
		s.logIn.Snapshot(),
		s.rent.Snapshot(),
		s.ret.Snapshot(),
	}
}
