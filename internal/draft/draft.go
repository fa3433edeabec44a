// Package draft assembles and validates reservation and order submissions.
// Validation runs before anything is persisted or published, and the payload
// builders never mutate the draft or the cart they were built from.
package draft

import (
	"fmt"
	"strings"
	"time"

	"dinehub/internal/cart"
	"dinehub/internal/money"
)

const dateLayout = "2006-01-02"

type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ReservationDraft struct {
	RestaurantID uint   `json:"restaurant_id"`
	TableID      *uint  `json:"table_id,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
}

// Validate reports the first failing field. The date may not be earlier than
// the calendar day of now.
func (d ReservationDraft) Validate(now time.Time) error {
	if d.RestaurantID == 0 {
		return &ValidationError{Field: "restaurant_id", Reason: "restaurant is required"}
	}
	if d.Date == "" {
		return &ValidationError{Field: "date", Reason: "date is required"}
	}
	day, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return &ValidationError{Field: "date", Reason: "invalid date"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return &ValidationError{Field: "date", Reason: "date is in the past"}
	}
	if d.Time == "" {
		return &ValidationError{Field: "time", Reason: "time is required"}
	}
	if d.PartySize < 1 {
		return &ValidationError{Field: "party_size", Reason: "party size must be at least 1"}
	}
	return nil
}

type OrderDraft struct {
	RestaurantID uint        `json:"restaurant_id"`
	Lines        []cart.Line `json:"lines"`
	Customer     Customer    `json:"customer"`
}

// NewOrderDraft snapshots the live cart so later cart edits or a failed
// submission cannot touch what was submitted.
func NewOrderDraft(restaurantID uint, c *cart.Cart, customer Customer) OrderDraft {
	return OrderDraft{
		RestaurantID: restaurantID,
		Lines:        c.Snapshot(),
		Customer:     customer,
	}
}

func (d OrderDraft) Validate() error {
	if d.RestaurantID == 0 {
		return &ValidationError{Field: "restaurant_id", Reason: "restaurant is required"}
	}
	if len(d.Lines) == 0 {
		return &ValidationError{Field: "lines", Reason: "cart is empty"}
	}
	if d.Customer.Email == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if !emailShaped(d.Customer.Email) {
		return &ValidationError{Field: "email", Reason: "invalid email"}
	}
	return nil
}

func (d OrderDraft) Total() float64 {
	var sum float64
	for _, l := range d.Lines {
		sum += money.Line(l.UnitPrice, l.Quantity)
	}
	return sum
}

func emailShaped(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
