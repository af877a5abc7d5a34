// Package fakeapi serves the rental REST API from memory for local
// development and tests of the portals.
package fakeapi

import (
	"io"
	"net/http"

	"carrental/internal/auth"
	"carrental/internal/repository"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Options configures the fake server.
type Options struct {
	// SessionToken, when set, is required in the admin session cookie of car
	// writes and customer submissions.
	SessionToken string
	// AllowedOrigins enables CORS for browser clients.
	AllowedOrigins []string
	// AccessLog receives one line per request; nil disables access logs.
	AccessLog io.Writer
}

// Server bundles the router with the store it serves.
type Server struct {
	Store   *repository.Store
	handler http.Handler
}

func NewServer(store *repository.Store, opts Options) *Server {
	if store == nil {
		store = repository.NewStore()
	}
	carHandler := NewCarHandler(repository.NewCarRepository(store))
	customerHandler := NewCustomerHandler(repository.NewCustomerRepository(store))
	rentalHandler := NewRentalHandler(repository.NewRentalRepository(store))
	session := auth.SessionMiddleware(opts.SessionToken)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Cars. Reads are public so the customer portal can list them.
	api.HandleFunc("/cars", carHandler.ListCars).Methods("GET")
	api.Handle("/cars", session(http.HandlerFunc(carHandler.CreateCar))).Methods("POST")
	api.Handle("/cars/{id}", session(http.HandlerFunc(carHandler.DeleteCar))).Methods("DELETE")

	// Customers
	api.Handle("/customers", session(http.HandlerFunc(customerHandler.CreateCustomer))).Methods("POST")
	api.HandleFunc("/customers/signup", customerHandler.SignUp).Methods("POST")
	api.HandleFunc("/customers/login", customerHandler.LogIn).Methods("POST")

	// Rentals
	api.HandleFunc("/rentals/create", rentalHandler.CreateRental).Methods("POST")
	api.HandleFunc("/rentals/customer/{customerId}", rentalHandler.ListCustomerRentals).Methods("GET")
	api.HandleFunc("/rentals/{rentalId}/return", rentalHandler.ReturnRental).Methods("POST")

	var h http.Handler = r
	if len(opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.AllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
			handlers.AllowCredentials(),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if opts.AccessLog != nil {
		h = handlers.LoggingHandler(opts.AccessLog, h)
	}
	return &Server{Store: store, handler: h}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
