package payments

// usdRates maps each supported currency to its per-USD rate.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110.0,
	"CNY": 6.45,
	"INR": 74.0,
	"AED": 3.67,
	"SAR": 3.75,
}

// ExchangeRate returns the from→to conversion factor. Unknown currencies
// fall back to 1:1.
func ExchangeRate(from, to string) float64 {
	fromRate, okFrom := usdRates[from]
	toRate, okTo := usdRates[to]
	if !okFrom || !okTo {
		return 1.0
	}
	return toRate / fromRate
}

// Convert applies the from→to rate to an amount.
func Convert(amount float64, from, to string) float64 {
	return amount * ExchangeRate(from, to)
}

// SupportedCurrencies lists what the platform quotes in.
func SupportedCurrencies() []string {
	return []string{"USD", "EUR", "GBP", "JPY", "CNY", "INR", "AED", "SAR", "CAD", "AUD"}
}
