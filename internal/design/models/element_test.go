package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewElementDefaults(t *testing.T) {
	e, err := NewElement(ElementInput{
		Type: TypeFurniture, X: 10, Y: 10, Width: 50, Height: 50,
		Color: "#fff", Name: "Table",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1.0, e.Opacity)
	assert.False(t, e.Locked)
	assert.Equal(t, "Table", e.Name)
}

func TestNewElementUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		e, err := NewElement(ElementInput{Type: TypeChair, Width: float64(i + 1), Height: 1})
		require.NoError(t, err)
		require.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestNewElementValidation(t *testing.T) {
	tests := []struct {
		name  string
		input ElementInput
		field string
	}{
		{"zero width", ElementInput{Type: TypeBed, Width: 0, Height: 10}, "width"},
		{"negative height", ElementInput{Type: TypeBed, Width: 10, Height: -1}, "height"},
		{"nan width", ElementInput{Type: TypeBed, Width: math.NaN(), Height: 1}, "width"},
		{"unknown type", ElementInput{Type: "spaceship", Width: 1, Height: 1}, "type"},
		{"opacity too high", ElementInput{Type: TypeLight, Width: 1, Height: 1, Opacity: ptr(1.5)}, "opacity"},
		{"bad furniture type", ElementInput{Type: TypeFurniture, FurnitureType: "throne", Width: 1, Height: 1}, "furnitureType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewElement(tt.input)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNewElementKeepsSuppliedID(t *testing.T) {
	e, err := NewElement(ElementInput{ID: "wall-1", Type: TypeWall, Width: 100, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, "wall-1", e.ID)
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeRotation(360))
	assert.Equal(t, 90.0, NormalizeRotation(450))
	assert.Equal(t, 270.0, NormalizeRotation(-90))
	assert.Equal(t, 0.0, NormalizeRotation(math.Inf(1)))
}

func TestElementApply(t *testing.T) {
	e, err := NewElement(ElementInput{Type: TypeSofa, X: 1, Y: 2, Width: 3, Height: 4, Color: "#000"})
	require.NoError(t, err)

	next, err := e.Apply(ElementUpdate{X: ptr(20.0), Rotation: ptr(-45.0)})
	require.NoError(t, err)

	assert.Equal(t, 20.0, next.X)
	assert.Equal(t, 2.0, next.Y)
	assert.Equal(t, 315.0, next.Rotation)
	assert.Equal(t, "#000", next.Color)
	assert.Equal(t, 1.0, e.X, "source element must not change")

	_, err = e.Apply(ElementUpdate{Width: ptr(0.0)})
	assert.True(t, IsValidation(err))
}
