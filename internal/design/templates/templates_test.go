package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-planner/internal/design/models"
)

func TestTemplatesAreValid(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	for _, d := range all {
		assert.True(t, d.IsTemplate, d.Name)
		assert.NoError(t, d.Validate(), d.Name)
		assert.NotEmpty(t, d.Elements, d.Name)
	}
}

func TestGet(t *testing.T) {
	a, err := Get("kitchen")
	require.NoError(t, err)
	b, err := Get("template-kitchen")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	_, err = Get("garage")
	assert.ErrorIs(t, err, models.ErrTemplateNotFound)
}

func TestTemplatesCannotBeMutated(t *testing.T) {
	a, err := Get("bedroom")
	require.NoError(t, err)
	a.Elements[0].X = 777
	a.Name = "Changed"
	a.Room.Width = 1

	b, err := Get("bedroom")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom", b.Name)
	assert.NotEqual(t, 777.0, b.Elements[0].X)
	assert.Equal(t, 400.0, b.Room.Width)
}
