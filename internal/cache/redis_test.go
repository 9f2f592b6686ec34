package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	c := NewRedisCache("localhost:6379", "orders")
	assert.Equal(t, "orders:payment_status:user-1:DAISY123",
		c.GenerateKey("payment_status", "user-1:DAISY123"))
}
