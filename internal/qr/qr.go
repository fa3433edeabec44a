package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Generator renders the confirmation QR for a reservation. The encoded URL
// opens the reservation by its public code.
type Generator struct {
	BaseURL string
}

func (g Generator) Reservation(code string) ([]byte, error) {
	data := fmt.Sprintf("%s/reservations/lookup/%s", g.BaseURL, code)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
