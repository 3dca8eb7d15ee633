package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	code := NewCode(now)
	assert.Len(t, code, 14)
	assert.Equal(t, "TF20250314", code[:10])

	suffix := code[10:]
	assert.Regexp(t, `^[1-9][0-9]{3}$`, suffix)
}
