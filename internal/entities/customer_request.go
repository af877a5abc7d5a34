package entities

import (
	"strings"

	apperrors "carrental/internal/errors"
)

// CustomerForm holds the raw text of the signup and customer forms.
type CustomerForm struct {
	Name           string
	Email          string
	PhoneNumber    string
	DriversLicense string
}

// CustomerRequest is the body of POST /api/customers and /api/customers/signup.
type CustomerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	DriversLicense string `json:"drivers_license"`
}

// LoginRequest is the body of POST /api/customers/login.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Request requires every field to be filled in.
func (f CustomerForm) Request() (CustomerRequest, error) {
	req := CustomerRequest{
		Name:           strings.TrimSpace(f.Name),
		Email:          strings.TrimSpace(f.Email),
		PhoneNumber:    strings.TrimSpace(f.PhoneNumber),
		DriversLicense: strings.TrimSpace(f.DriversLicense),
	}
	switch {
	case req.Name == "":
		return CustomerRequest{}, apperrors.ErrRequired("name")
	case req.Email == "":
		return CustomerRequest{}, apperrors.ErrRequired("email")
	case req.PhoneNumber == "":
		return CustomerRequest{}, apperrors.ErrRequired("phone_number")
	case req.DriversLicense == "":
		return CustomerRequest{}, apperrors.ErrRequired("drivers_license")
	}
	return req, nil
}

// LoginRequest only needs the name and email.
func (f CustomerForm) LoginRequest() (LoginRequest, error) {
	req := LoginRequest{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email)}
	if req.Name == "" {
		return LoginRequest{}, apperrors.ErrRequired("name")
	}
	if req.Email == "" {
		return LoginRequest{}, apperrors.ErrRequired("email")
	}
	return req, nil
}
