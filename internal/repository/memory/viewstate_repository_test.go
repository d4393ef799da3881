package memory

import (
	"testing"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/navigation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateFreshUserIsOnLanding(t *testing.T) {
	repo := NewViewStateRepository()

	state := repo.GetOrCreate("user-1")
	assert.Equal(t, navigation.ViewLanding, state.Snapshot().CurrentView)
}

func TestGetOrCreateReturnsSameStatePerUser(t *testing.T) {
	repo := NewViewStateRepository()

	first := repo.GetOrCreate("user-1")
	require.NoError(t, first.SelectClass(entity.Class10))

	again := repo.GetOrCreate("user-1")
	assert.Same(t, first, again)
	assert.Equal(t, entity.Class10, again.Snapshot().SelectedClass)

	other := repo.GetOrCreate("user-2")
	assert.Equal(t, navigation.ViewLanding, other.Snapshot().CurrentView)
}
