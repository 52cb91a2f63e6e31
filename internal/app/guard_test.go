package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeOwner(t *testing.T) {
	assert.NoError(t, authorizeOwner(3, 3))
	assert.ErrorIs(t, authorizeOwner(3, 4), ErrNotOwner)
	assert.ErrorIs(t, authorizeOwner(0, 0), ErrNotOwner)
}
