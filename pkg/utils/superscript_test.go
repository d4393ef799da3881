package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExponents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple square", in: "x^2 + y^-1", want: "x² + y⁻¹"},
		{name: "negative exponent", in: "10^-6", want: "10⁻⁶"},
		{name: "positive sign", in: "e^+2", want: "e⁺²"},
		{name: "multi digit", in: "2^10 = 1024", want: "2¹⁰ = 1024"},
		{name: "no exponent", in: "plain physics text", want: "plain physics text"},
		{name: "caret without exponent", in: "a ^ b", want: "a ^ b"},
		{name: "inside sentence", in: "The speed of light is 3 x 10^8 m/s.", want: "The speed of light is 3 x 10⁸ m/s."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExponents(tt.in))
		})
	}
}

func TestNormalizeExponentsIdempotent(t *testing.T) {
	once := NormalizeExponents("x^2 + y^-1 and 10^-6")
	twice := NormalizeExponents(once)
	assert.Equal(t, once, twice, "already-converted superscripts must be left unchanged")
}
