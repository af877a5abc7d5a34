package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental/internal/entities"
	"carrental/internal/repository"

	"github.com/gorilla/mux"
)

type CarHandler struct {
	Repo *repository.CarRepository
}

func NewCarHandler(repo *repository.CarRepository) *CarHandler {
	return &CarHandler{Repo: repo}
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.ListCars())
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid car data")
		return
	}
	car, err := h.Repo.CreateCar(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid car data")
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := h.Repo.DeleteCar(id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not delete car")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
