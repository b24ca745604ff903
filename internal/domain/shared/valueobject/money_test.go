package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already two places", "315.00", "315.00"},
		{"rounds half up", "10.005", "10.01"},
		{"rounds half away from zero when negative", "-10.005", "-10.01"},
		{"rounds down below half", "34.994", "34.99"},
		{"float drift collapses", "0.30000000000000004", "0.30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round2(decimal.RequireFromString(tc.in))
			assert.Equal(t, tc.want, got.StringFixed(MoneyPlaces))
		})
	}
}

func TestRound2Idempotent(t *testing.T) {
	once := Round2(decimal.RequireFromString("199.995"))
	assert.True(t, once.Equal(Round2(once)))
}
