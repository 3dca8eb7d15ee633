package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewCode builds a human-readable order code: "TF" + yyyymmdd + a 4-digit
// random suffix. The suffix is not globally unique by construction; the
// orders table enforces uniqueness and Place retries on a collision.
func NewCode(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 9000)
	}
	return fmt.Sprintf("TF%s%04d", now.Format("20060102"), n.Int64()+1000)
}
