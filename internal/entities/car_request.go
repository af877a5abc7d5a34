package entities

import (
	"strconv"
	"strings"

	apperrors "carrental/internal/errors"
	"carrental/internal/utils"
)

// CarForm holds the raw text of the admin "add car" form.
type CarForm struct {
	Make  string
	Model string
	Year  string
	Type  string
}

// CreateCarRequest is the body of POST /api/cars.
type CreateCarRequest struct {
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	Type      CarType `json:"type"`
	Available bool    `json:"available"`
}

// Request validates the form and builds the create payload. New cars are
// always listed as available.
func (f CarForm) Request() (CreateCarRequest, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"make", f.Make},
		{"model", f.Model},
		{"year", f.Year},
		{"type", f.Type},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return CreateCarRequest{}, apperrors.ErrRequired(field.name)
		}
	}

	year, err := strconv.Atoi(strings.TrimSpace(f.Year))
	if err != nil {
		return CreateCarRequest{}, &apperrors.ValidationError{Field: "year", Message: "must be a whole number"}
	}
	carType, ok := utils.NormalizeCarType(f.Type)
	if !ok {
		return CreateCarRequest{}, &apperrors.ValidationError{
			Field:   "type",
			Message: "must be one of " + strings.Join(utils.CarTypeNames(), ", "),
		}
	}

	return CreateCarRequest{
		Make:      strings.TrimSpace(f.Make),
		Model:     strings.TrimSpace(f.Model),
		Year:      year,
		Type:      CarType(carType),
		Available: true,
	}, nil
}
