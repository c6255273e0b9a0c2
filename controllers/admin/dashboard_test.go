package adminController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 100.0, percentChange(20, 10))
	assert.Equal(t, -50.0, percentChange(5, 10))
	assert.Equal(t, 0.0, percentChange(10, 10))
	assert.Equal(t, 0.0, percentChange(10, 0), "empty previous period reads as flat")
	assert.Equal(t, 0.0, percentChange(0, 0))
}
