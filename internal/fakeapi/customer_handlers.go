package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental/internal/entities"
	"carrental/internal/repository"
)

type CustomerHandler struct {
	Repo *repository.CustomerRepository
}

func NewCustomerHandler(repo *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{Repo: repo}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req entities.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer data")
		return
	}
	customer, err := h.Repo.CreateCustomer(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer data")
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req entities.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer data")
		return
	}
	customer, err := h.Repo.SignUp(req)
	switch {
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusBadRequest, "Customer with this email already exists")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid customer data")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"customerId": customer.ID})
}

func (h *CustomerHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login data")
		return
	}
	customer, err := h.Repo.LogIn(req.Name, req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"customerId": customer.ID})
}
