package payment

import (
	"fmt"
	"math"
)

// ToMinorUnits scales a decimal amount to integer minor units (cents).
// All amount comparisons happen on these integers, never on floats.
// Zero stays an explicit 0.
func ToMinorUnits(amount float64) int64 {
	if amount == 0 {
		return 0
	}
	return int64(math.Round(amount * 100))
}

// FormatDecimal renders an amount with two decimals for the hosted-form
// payload, which carries the decimal representation on the wire.
func FormatDecimal(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
