package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3.0, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3.0, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
	assert.Equal(t, 3, Clamp(7, 0, 3))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(5), Lerp(0, 10, 0.5))
	assert.Equal(t, float32(2), Lerp(2, 8, 0))
}
