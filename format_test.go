package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{name: "dollars and cents", amount: 1234.5, code: "USD", want: "$1,234.50"},
		{name: "rounds to the cent", amount: 0.005, code: "USD", want: "$0.01"},
		{name: "negative", amount: -3, code: "USD", want: "-$3.00"},
		{name: "zero", amount: 0, code: "USD", want: "$0.00"},
		{name: "positive infinity", amount: math.Inf(1), code: "USD", want: "∞"},
		{name: "negative infinity", amount: math.Inf(-1), code: "USD", want: "-∞"},
		{name: "NaN", amount: math.NaN(), code: "USD", want: "NaN"},
		{name: "euros", amount: 1234.5, code: "EUR", want: "€1,234.50"},
		{name: "yen has no minor unit", amount: 1234, code: "JPY", want: "¥1,234"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAmount(tc.amount, tc.code))
		})
	}

	t.Run("amounts beyond the formatter range fall back to the raw float", func(t *testing.T) {
		got := FormatAmount(1e30, "USD")
		assert.NotEmpty(t, got)
		assert.NotContains(t, got, "$")
	})
}
