// Package repository keeps the records of the development rental API in memory.
package repository

import (
	"errors"
	"sync"
	"time"

	"carrental/internal/entities"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record conflicts with current state")
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the shared in-memory database behind the repositories. All
// repositories lock the same mutex so a rent touches the car and the rental
// atomically.
type Store struct {
	mu        sync.Mutex
	cars      map[string]*entities.Car
	carOrder  []string
	customers map[string]*entities.Customer
	rentals   map[string]*entities.Rental
	rentOrder []string

	now   func() time.Time
	newID func() string
}

func NewStore() *Store {
	return &Store{
		cars:      make(map[string]*entities.Car),
		customers: make(map[string]*entities.Customer),
		rentals:   make(map[string]*entities.Rental),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock overrides the time source used for rental dates.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
