package utils

import "github.com/shopspring/decimal"

// RoundUSD rounds a USD amount to the nearest whole dollar, half away from zero
func RoundUSD(amount float64) int64 {
	return decimal.NewFromFloat(amount).Round(0).IntPart()
}

// ParseUSD parses a decimal string as returned by exchange APIs ("65000.70000000")
func ParseUSD(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}
