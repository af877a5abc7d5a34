package fakeapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"carrental/internal/entities"
	"carrental/internal/repository"

	"github.com/gorilla/mux"
)

type RentalHandler struct {
	Repo *repository.RentalRepository
}

func NewRentalHandler(repo *repository.RentalRepository) *RentalHandler {
	return &RentalHandler{Repo: repo}
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental data")
		return
	}
	rental, err := h.Repo.CreateRental(req)
	switch {
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "Car is not available")
		return
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Car or customer not found")
		return
	case err != nil:
		log.Printf("Error creating rental: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create rental")
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) ListCustomerRentals(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]
	rented, err := h.Repo.ListCustomerRentals(customerID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		log.Printf("Error fetching rentals: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch rentals")
		return
	}
	writeJSON(w, http.StatusOK, rented)
}

func (h *RentalHandler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	rentalID := mux.Vars(r)["rentalId"]
	rental, err := h.Repo.ReturnRental(rentalID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Rental not found")
		return
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "Rental already returned")
		return
	case err != nil:
		log.Printf("Error updating rental: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update rental")
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
