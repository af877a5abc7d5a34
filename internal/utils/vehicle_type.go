package utils

import "strings"

var carTypes = map[string]string{
	"sedan":     "Sedan",
	"suv":       "SUV",
	"hatchback": "Hatchback",
	"truck":     "Truck",
}

// NormalizeCarType maps user input onto the canonical car type name the API
// stores ("suv" -> "SUV"). It reports false for unknown types.
func NormalizeCarType(name string) (string, bool) {
	canonical, ok := carTypes[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// CarTypeNames returns the canonical car type names in display order.
func CarTypeNames() []string {
	return []string{"Sedan", "SUV", "Hatchback", "Truck"}
}
