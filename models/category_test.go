package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Valid(t *testing.T) {
	assert.Len(t, GetCategories(), 8)
	for _, c := range GetCategories() {
		assert.True(t, c.Valid(), c.String())
	}

	assert.False(t, Category("All").Valid())
	assert.False(t, Category("food").Valid())
	assert.False(t, Category("").Valid())
}
