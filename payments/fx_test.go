package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExchangeRate(t *testing.T) {
	assert.Equal(t, 1.0, ExchangeRate("USD", "USD"))
	assert.InDelta(t, 0.85, ExchangeRate("USD", "EUR"), 1e-9)
	assert.InDelta(t, 1.0/0.85, ExchangeRate("EUR", "USD"), 1e-9)
	assert.InDelta(t, 110.0/0.73, ExchangeRate("GBP", "JPY"), 1e-9)

	// unknown currencies fall back to 1:1
	assert.Equal(t, 1.0, ExchangeRate("USD", "XYZ"))
	assert.Equal(t, 1.0, ExchangeRate("XYZ", "EUR"))
}

func TestExchangeRateRoundTrip(t *testing.T) {
	for _, from := range []string{"USD", "EUR", "GBP", "JPY", "CNY", "INR", "AED", "SAR"} {
		for _, to := range []string{"USD", "EUR", "CNY"} {
			assert.InDelta(t, 1.0, ExchangeRate(from, to)*ExchangeRate(to, from), 1e-9, "%s<->%s", from, to)
		}
	}
}

func TestConvert(t *testing.T) {
	assert.InDelta(t, 645.0, Convert(100, "USD", "CNY"), 1e-9)
	assert.InDelta(t, 100.0, Convert(7400, "INR", "USD"), 1e-9)
}

func TestSupportedCurrencies(t *testing.T) {
	currencies := SupportedCurrencies()
	assert.Len(t, currencies, 10)
	assert.Contains(t, currencies, "USD")
	assert.Contains(t, currencies, "AED")
}
