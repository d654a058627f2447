package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnits is the exponent of each currency's minor unit where it is not 2.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
}

// MajorAmount converts an amount in minor units (paise for INR) to the currency's major unit.
func MajorAmount(amount int64, currency string) decimal.Decimal {
	exp, ok := minorUnits[strings.ToUpper(currency)]
	if !ok {
		exp = 2
	}
	return decimal.New(amount, -exp)
}

// DisplayAmount formats amount for people, e.g. "INR 49.00".
func DisplayAmount(amount int64, currency string) string {
	currency = strings.ToUpper(currency)
	exp, ok := minorUnits[currency]
	if !ok {
		exp = 2
	}
	return strings.TrimSpace(currency + " " + MajorAmount(amount, currency).StringFixed(exp))
}
