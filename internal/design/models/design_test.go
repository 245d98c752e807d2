package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleDesign(t *testing.T, n int) *Design {
	t.Helper()
	d, err := NewDesign("Living Room", testNow)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		e, err := NewElement(ElementInput{Type: TypeChair, X: float64(i), Width: 10, Height: 10, Name: "Chair"})
		require.NoError(t, err)
		d.Elements = append(d.Elements, e)
	}
	return d
}

func TestNewDesign(t *testing.T) {
	d, err := NewDesign("  Kitchen ", testNow)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", d.Name)
	assert.NotEmpty(t, d.ID)
	assert.Empty(t, d.Elements)
	assert.NotNil(t, d.Elements)
	assert.True(t, d.CreatedAt.Equal(d.UpdatedAt))
}

func TestNewDesignRequiresName(t *testing.T) {
	_, err := NewDesign("   ", testNow)
	assert.True(t, IsValidation(err))
}

func TestDesignCloneDoesNotAlias(t *testing.T) {
	d := sampleDesign(t, 2)
	d.Room = &Room{Width: 400, Length: 300, Unit: RoomUnitCM}

	c := d.Clone()
	c.Elements[0].X = 999
	c.Elements = append(c.Elements, c.Elements[0].Clone())
	c.Room.Width = 1

	assert.Equal(t, 0.0, d.Elements[0].X)
	assert.Len(t, d.Elements, 2)
	assert.Equal(t, 400.0, d.Room.Width)
	assert.NotSame(t, d.Elements[1], c.Elements[1])
}

func TestCloneDesignOptions(t *testing.T) {
	d := sampleDesign(t, 3)
	later := testNow.Add(time.Hour)

	c := CloneDesign(d, CloneOptions{NewID: true, ResetTimestamps: true, NameSuffix: " Copy"}, later)
	assert.NotEqual(t, d.ID, c.ID)
	assert.Equal(t, "Living Room Copy", c.Name)
	assert.True(t, c.CreatedAt.Equal(later))
	for i := range d.Elements {
		assert.Equal(t, d.Elements[i].ID, c.Elements[i].ID)
	}

	fresh := CloneDesign(d, CloneOptions{FreshElementIDs: true}, later)
	assert.Equal(t, d.ID, fresh.ID)
	assert.True(t, fresh.CreatedAt.Equal(testNow))
	ids := make(map[string]bool)
	for i := range d.Elements {
		assert.NotEqual(t, d.Elements[i].ID, fresh.Elements[i].ID)
		ids[fresh.Elements[i].ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestDesignValidate(t *testing.T) {
	d := sampleDesign(t, 2)
	require.NoError(t, d.Validate())

	d.Elements[1].ID = d.Elements[0].ID
	assert.True(t, IsValidation(d.Validate()))

	d = sampleDesign(t, 0)
	d.Room = &Room{Width: 1, Length: 1, Unit: "furlong"}
	assert.True(t, IsValidation(d.Validate()))
}

func TestDesignTouchAdvances(t *testing.T) {
	d := sampleDesign(t, 0)
	before := d.UpdatedAt

	d.Touch(before)
	assert.True(t, d.UpdatedAt.After(before))
	assert.True(t, d.CreatedAt.Equal(testNow))

	d.Touch(testNow.Add(time.Minute))
	assert.True(t, d.UpdatedAt.Equal(testNow.Add(time.Minute)))
}
