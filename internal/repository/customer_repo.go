package repository

import (
	"fmt"
	"strings"

	"carrental/internal/entities"
)

type CustomerRepository struct {
	DB *Store
}

func NewCustomerRepository(db *Store) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// GetByEmail returns nil when no customer uses the email.
func (r *CustomerRepository) GetByEmail(email string) *entities.Customer {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return r.findByEmailLocked(email)
}

func (r *CustomerRepository) findByEmailLocked(email string) *entities.Customer {
	for _, c := range r.DB.customers {
		if strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp
		}
	}
	return nil
}

// CreateCustomer inserts a customer without checking for duplicates, as the
// admin form does.
func (r *CustomerRepository) CreateCustomer(req entities.CustomerRequest) (entities.Customer, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return r.insertLocked(req)
}

// SignUp inserts a customer unless the email is already registered.
func (r *CustomerRepository) SignUp(req entities.CustomerRequest) (entities.Customer, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	if r.findByEmailLocked(req.Email) != nil {
		return entities.Customer{}, fmt.Errorf("customer %s: %w", req.Email, ErrConflict)
	}
	return r.insertLocked(req)
}

// LogIn resolves a customer by exact name and email.
func (r *CustomerRepository) LogIn(name, email string) (entities.Customer, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()

	for _, c := range r.DB.customers {
		if c.Name == name && c.Email == email {
			return *c, nil
		}
	}
	return entities.Customer{}, fmt.Errorf("customer %s: %w", email, ErrNotFound)
}

func (r *CustomerRepository) insertLocked(req entities.CustomerRequest) (entities.Customer, error) {
	if req.Name == "" || req.Email == "" {
		return entities.Customer{}, fmt.Errorf("create customer: %w", ErrInvalidInput)
	}
	customer := &entities.Customer{
		ID:             r.DB.newID(),
		Name:           req.Name,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		DriversLicense: req.DriversLicense,
	}
	r.DB.customers[customer.ID] = customer
	return *customer, nil
}
