package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCarType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Sedan", want: "Sedan", wantOK: true},
		{in: "suv", want: "SUV", wantOK: true},
		{in: "  HATCHBACK ", want: "Hatchback", wantOK: true},
		{in: "truck", want: "Truck", wantOK: true},
		{in: "van", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCarType(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, name := range CarTypeNames() {
		got, ok := NormalizeCarType(name)
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}
}
