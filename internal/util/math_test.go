package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	// GIVEN
	a := 0.0
	b := 100.0
	c := 50.0

	expected := 0.5

	// WHEN
	result := Ratio(c, a, b)

	// THEN
	assert.Equal(t, expected, result)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 22, Coerce(5, 22, 255))
	assert.Equal(t, 255, Coerce(300, 22, 255))
	assert.Equal(t, 100, Coerce(100, 22, 255))
	assert.Equal(t, 0.5, Coerce(0.5, 0.0, 1.0))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 4, Abs(-4))
	assert.Equal(t, 4, Abs(4))
	assert.Equal(t, 1.5, Abs(-1.5))
}
