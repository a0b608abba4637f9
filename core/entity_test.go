package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyUnordered(t *testing.T) {
	assert.Equal(t, NewPairKey(3, 7), NewPairKey(7, 3))
	k := NewPairKey(9, 2)
	assert.Equal(t, Entity(2), k.Lo)
	assert.Equal(t, Entity(9), k.Hi)
}

func TestPairKeyOther(t *testing.T) {
	k := NewPairKey(4, 5)
	assert.True(t, k.Contains(4))
	assert.False(t, k.Contains(6))
	assert.Equal(t, Entity(5), k.Other(4))
	assert.Equal(t, Entity(4), k.Other(5))
	assert.Equal(t, NoEntity, k.Other(1))
}
