// Package money holds the price helpers shared by the cart and order flows.
package money

import "fmt"

// Line returns the price of a single cart line. Negative inputs are
// treated as zero so a bad catalog row can never drive a total negative.
func Line(unitPrice float64, quantity uint) float64 {
	if unitPrice < 0 {
		return 0
	}
	return unitPrice * float64(quantity)
}

func Format(amount float64) string {
	if amount < 0 {
		amount = 0
	}
	return fmt.Sprintf("$%.2f", amount)
}
