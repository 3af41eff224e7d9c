package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitionsOnlyMoveForward(t *testing.T) {
	assert.True(t, StatusOpen.CanTransitionTo(StatusAcknowledged))
	assert.True(t, StatusOpen.CanTransitionTo(StatusResolved))
	assert.True(t, StatusAcknowledged.CanTransitionTo(StatusResolved))

	assert.False(t, StatusResolved.CanTransitionTo(StatusAcknowledged))
	assert.False(t, StatusResolved.CanTransitionTo(StatusOpen))
	assert.False(t, StatusAcknowledged.CanTransitionTo(StatusOpen))

	// Re-asserting the current status is harmless
	assert.True(t, StatusAcknowledged.CanTransitionTo(StatusAcknowledged))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("open"))
	assert.True(t, ValidStatus("acknowledged"))
	assert.True(t, ValidStatus("resolved"))
	assert.False(t, ValidStatus("Pending"))
	assert.False(t, ValidStatus(""))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("1"))
	assert.True(t, ValidCategory("9"))
	assert.False(t, ValidCategory("10"))
	assert.False(t, ValidCategory(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("resident"))
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("super_admin"))
	assert.False(t, ValidRole("guest"))
	assert.False(t, ValidRole(""))
}
