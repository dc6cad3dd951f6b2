package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outlai/internal/apitest"
	"outlai/internal/state"
)

func TestIsTokenExpired(t *testing.T) {
	assert.True(t, state.IsTokenExpired(apitest.ExpiredToken()))
	assert.True(t, state.IsTokenExpired("not-a-jwt"))
	assert.True(t, state.IsTokenExpired(""))
}
