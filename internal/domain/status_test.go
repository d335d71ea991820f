package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []AssetStatus{
	StatusAvailable, StatusAssigned, StatusMaintenance,
	StatusRetired, StatusLost, StatusDamaged,
}

// The full adjacency list, pair by pair.
func TestCanTransition_Table(t *testing.T) {
	allowed := map[AssetStatus][]AssetStatus{
		StatusAvailable:   {StatusAssigned, StatusMaintenance, StatusDamaged, StatusLost},
		StatusAssigned:    {StatusAvailable, StatusMaintenance, StatusRetired, StatusDamaged, StatusLost},
		StatusMaintenance: {StatusAvailable, StatusRetired, StatusDamaged},
		StatusRetired:     {},
		StatusLost:        {StatusAvailable, StatusDamaged},
		StatusDamaged:     {StatusAvailable, StatusMaintenance, StatusRetired},
	}

	for _, from := range allStatuses {
		want := map[AssetStatus]bool{}
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range allStatuses {
			assert.Equalf(t, want[to], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	for _, s := range allStatuses {
		assert.Falsef(t, CanTransition(s, s), "self-loop %s", s)
	}
}

func TestRetired_IsTerminal(t *testing.T) {
	assert.Empty(t, AllowedTargets(StatusRetired))
	for _, to := range allStatuses {
		assert.False(t, CanTransition(StatusRetired, to))
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("scrapped"))
	assert.False(t, ValidStatus(""))
}

func TestValidReason(t *testing.T) {
	assert.True(t, ValidReason(ReasonScheduledMaintenance))
	assert.True(t, ValidReason(ReasonAssignment))
	assert.False(t, ValidReason("because"))
	assert.False(t, ValidReason(""))
}
