package order

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders an order's tracking link as a QR image.
type QRGenerator interface {
	Generate(code string) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(code string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/track?order=%s", g.BaseURL, code)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
