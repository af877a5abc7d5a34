package entities

// CarType is one of the car categories the rental API accepts.
type CarType string

const (
	CarTypeSedan     CarType = "Sedan"
	CarTypeSUV       CarType = "SUV"
	CarTypeHatchback CarType = "Hatchback"
	CarTypeTruck     CarType = "Truck"
)

// Car is a fleet record. Available flips on rent and return.
type Car struct {
	ID        string  `json:"_id,omitempty"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	Type      CarType `json:"type"`
	Available bool    `json:"available"`
}

// AvailableCars returns the cars that can currently be rented, keeping order.
func AvailableCars(cars []Car) []Car {
	out := make([]Car, 0, len(cars))
	for _, c := range cars {
		if c.Available {
			out = append(out, c)
		}
	}
	return out
}
