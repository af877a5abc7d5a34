package entities

type Customer struct {
	ID             string `json:"_id,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	DriversLicense string `json:"drivers_license,omitempty"`
}
