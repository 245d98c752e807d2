package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-planner/internal/design/models"
)

// ============================================================
// fixtures
// ============================================================

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type memPersister struct {
	data  []byte
	saves int
	fail  error
}

func (m *memPersister) Load() ([]byte, error) { return m.data, nil }

func (m *memPersister) Save(data []byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.data = append([]byte(nil), data...)
	return nil
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	clock := newFakeClock()
	return New(append([]Option{WithClock(clock.Now)}, opts...)...)
}

func ptr[T any](v T) *T { return &v }

func table() models.ElementInput {
	return models.ElementInput{
		Type: models.TypeFurniture, X: 10, Y: 10, Width: 50, Height: 50,
		Color: "#fff", Name: "Table",
	}
}

func addN(t *testing.T, s *Store, n int) []*models.Element {
	t.Helper()
	out := make([]*models.Element, 0, n)
	for i := 0; i < n; i++ {
		in := table()
		in.X = float64(i * 10)
		e, err := s.Checked().AddElement(in)
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

// ============================================================
// scenarios
// ============================================================

func TestKitchenScenario(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Kitchen"))
	require.NoError(t, s.AddElement(table()))

	d := s.CurrentDesign()
	require.Len(t, d.Elements, 1)
	e := d.Elements[0]
	assert.NotEmpty(t, e.ID)
	before := d.UpdatedAt

	require.NoError(t, s.UpdateElement(e.ID, models.ElementUpdate{X: ptr(20.0)}))

	after := s.CurrentDesign()
	got := after.Elements[0]
	assert.Equal(t, 20.0, got.X)
	assert.Equal(t, e.Y, got.Y)
	assert.Equal(t, e.Width, got.Width)
	assert.Equal(t, e.Height, got.Height)
	assert.Equal(t, e.Color, got.Color)
	assert.Equal(t, e.Name, got.Name)
	assert.True(t, after.UpdatedAt.After(before))
	assert.True(t, after.CreatedAt.Equal(d.CreatedAt))
}

func TestCreateNewDesignRequiresName(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateNewDesign("")
	assert.True(t, models.IsValidation(err))
	assert.Nil(t, s.CurrentDesign())
}

func TestCreateNewDesignClearsSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	els := addN(t, s, 1)
	s.SelectElement(els[0].ID)
	require.NotNil(t, s.SelectedElement())

	require.NoError(t, s.CreateNewDesign("B"))
	assert.Nil(t, s.SelectedElement())
	assert.Empty(t, s.CurrentDesign().Elements)
}

func TestAddElementWithoutCurrentDesignIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.AddElement(table()))
	assert.Nil(t, s.CurrentDesign())

	_, err := s.Checked().AddElement(table())
	assert.ErrorIs(t, err, models.ErrNoCurrentDesign)
}

func TestAddElementValidation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))

	in := table()
	in.Width = 0
	assert.True(t, models.IsValidation(s.AddElement(in)))
	assert.Empty(t, s.CurrentDesign().Elements)

	in = table()
	in.ID = "fixed"
	require.NoError(t, s.AddElement(in))
	assert.True(t, models.IsValidation(s.AddElement(in)), "duplicate ids are rejected")
}

func TestAddElementPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	els := addN(t, s, 4)

	d := s.CurrentDesign()
	for i := range els {
		assert.Equal(t, els[i].ID, d.Elements[i].ID)
	}
}

func TestUpdateElementMissing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.UpdateElement("nope", models.ElementUpdate{X: ptr(1.0)}))

	require.NoError(t, s.CreateNewDesign("A"))
	before := s.CurrentDesign().UpdatedAt
	assert.NoError(t, s.UpdateElement("nope", models.ElementUpdate{X: ptr(1.0)}))
	assert.True(t, s.CurrentDesign().UpdatedAt.Equal(before))

	_, err := s.Checked().UpdateElement("nope", models.ElementUpdate{})
	assert.ErrorIs(t, err, models.ErrElementNotFound)
}

func TestCheckedUpdateReturnsMergedElement(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]

	got, err := s.Checked().UpdateElement(e.ID, models.ElementUpdate{X: ptr(42.0)})
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.X)
	assert.Equal(t, e.Width, got.Width)

	got, err = s.Checked().RotateElement(e.ID, -90)
	require.NoError(t, err)
	assert.Equal(t, 270.0, got.Rotation)

	got.X = -1
	assert.Equal(t, 42.0, s.CurrentDesign().Elements[0].X)

	s.DeleteDesign(s.CurrentDesign().ID)
	got, err = s.Checked().MoveElement(e.ID, 1, 1)
	assert.ErrorIs(t, err, models.ErrNoCurrentDesign)
	assert.Nil(t, got)
}

func TestUpdateElementRejectsInvalidMerge(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]

	err := s.UpdateElement(e.ID, models.ElementUpdate{Height: ptr(-3.0)})
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, 50.0, s.CurrentDesign().Elements[0].Height)
}

func TestUpdateElementRefreshesSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]
	s.SelectElement(e.ID)

	require.NoError(t, s.UpdateElement(e.ID, models.ElementUpdate{Color: ptr("#123456")}))
	assert.Equal(t, "#123456", s.SelectedElement().Color)
}

func TestDeleteSelectedElementClearsSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	els := addN(t, s, 2)

	s.SelectElement(els[0].ID)
	s.DeleteElement(els[0].ID)

	assert.Nil(t, s.SelectedElement())
	d := s.CurrentDesign()
	require.Len(t, d.Elements, 1)
	assert.Equal(t, els[1].ID, d.Elements[0].ID)
}

func TestDeleteOtherElementKeepsSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	els := addN(t, s, 2)

	s.SelectElement(els[0].ID)
	s.DeleteElement(els[1].ID)
	require.NotNil(t, s.SelectedElement())
	assert.Equal(t, els[0].ID, s.SelectedElement().ID)
}

func TestSelectElement(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]

	s.SelectElement(e.ID)
	require.NotNil(t, s.SelectedElement())

	s.SelectElement("missing")
	assert.Nil(t, s.SelectedElement())

	s.SelectElement(e.ID)
	s.SelectElement("")
	assert.Nil(t, s.SelectedElement())

	assert.ErrorIs(t, s.Checked().SelectElement("missing"), models.ErrElementNotFound)
}

func TestSaveCurrentDesignUpsert(t *testing.T) {
	s := newTestStore(t)
	_, ok := s.SaveCurrentDesign()
	assert.False(t, ok)

	require.NoError(t, s.CreateNewDesign("First"))
	first, ok := s.SaveCurrentDesign()
	require.True(t, ok)

	require.NoError(t, s.CreateNewDesign("Second"))
	_, ok = s.SaveCurrentDesign()
	require.True(t, ok)

	saved := s.SavedDesigns()
	require.Len(t, saved, 2)
	assert.Equal(t, "Second", saved[0].Name)

	require.True(t, s.LoadSavedDesign(first.ID))
	addN(t, s, 2)
	updated, ok := s.SaveCurrentDesign()
	require.True(t, ok)

	saved = s.SavedDesigns()
	require.Len(t, saved, 2)
	assert.Equal(t, first.ID, saved[1].ID, "existing entry keeps its position")
	assert.Len(t, saved[1].Elements, 2)
	assert.Len(t, updated.Elements, 2)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s := newTestStore(t)
		require.NoError(t, s.CreateNewDesign("Round trip"))
		addN(t, s, n)

		saved, ok := s.SaveCurrentDesign()
		require.True(t, ok)

		s.LoadDesign(saved)
		loaded := s.CurrentDesign()
		require.Len(t, loaded.Elements, n)
		for i := range saved.Elements {
			assert.Equal(t, *saved.Elements[i], *loaded.Elements[i])
			assert.NotSame(t, saved.Elements[i], loaded.Elements[i])
		}
	}
}

func TestLoadDesignDoesNotAlias(t *testing.T) {
	s := newTestStore(t)
	e, err := models.NewElement(table())
	require.NoError(t, err)
	d := &models.Design{
		ID: "d1", Name: "Mine", Elements: []*models.Element{e},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	s.LoadDesign(d)
	require.NoError(t, s.AddElement(table()))
	require.NoError(t, s.UpdateElement(e.ID, models.ElementUpdate{X: ptr(500.0)}))

	assert.Len(t, d.Elements, 1)
	assert.Equal(t, 10.0, d.Elements[0].X)
	assert.Len(t, s.CurrentDesign().Elements, 2)
}

func TestLoadDesignClearsSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]
	s.SelectElement(e.ID)
	d := s.CurrentDesign()

	s.LoadDesign(d)
	assert.Nil(t, s.SelectedElement())
}

func TestLoadDesignRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Keep"))
	e, err := models.NewElement(table())
	require.NoError(t, err)
	now := time.Now()

	bad := []*models.Design{
		{ID: "d1", Name: "Holes", Elements: []*models.Element{e, nil}, CreatedAt: now, UpdatedAt: now},
		{ID: "d2", Name: "Twins", Elements: []*models.Element{e, e.Clone()}, CreatedAt: now, UpdatedAt: now},
		{ID: "", Name: "Anonymous", CreatedAt: now, UpdatedAt: now},
	}
	for _, d := range bad {
		s.LoadDesign(d)
		assert.Equal(t, "Keep", s.CurrentDesign().Name)

		assert.True(t, models.IsValidation(s.Checked().LoadDesign(d)), d.Name)
		assert.Equal(t, "Keep", s.CurrentDesign().Name)
	}
	assert.True(t, models.IsValidation(s.Checked().LoadDesign(nil)))

	require.NoError(t, s.Checked().LoadDesign(&models.Design{
		ID: "d3", Name: "Good", Elements: []*models.Element{e}, CreatedAt: now, UpdatedAt: now,
	}))
	assert.Equal(t, "Good", s.CurrentDesign().Name)
}

func TestCreateDesignKeepsCurrentOnBadInfo(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Keep"))

	_, err := s.Checked().CreateDesign("Bad", DesignInfo{Room: &models.Room{Width: 0, Length: 5, Unit: models.RoomUnitCM}})
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, "Keep", s.CurrentDesign().Name)

	_, err = s.Checked().CreateDesign(" ", DesignInfo{})
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, "Keep", s.CurrentDesign().Name)

	cat := "kitchen"
	d, err := s.Checked().CreateDesign("Next", DesignInfo{
		Category: &cat,
		Room:     &models.Room{Width: 300, Length: 200, Unit: models.RoomUnitCM},
	})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", d.Category)
	assert.Equal(t, d.ID, s.CurrentDesign().ID)
	assert.Equal(t, 300.0, s.CurrentDesign().Room.Width)
}

func TestReturnedDesignsAreCopies(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	addN(t, s, 1)

	d := s.CurrentDesign()
	d.Elements[0].X = 12345
	d.Name = "hacked"
	assert.Equal(t, 0.0, s.CurrentDesign().Elements[0].X)
	assert.Equal(t, "A", s.CurrentDesign().Name)
}

func TestDeleteCurrentDesign(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Keep"))
	keep, _ := s.SaveCurrentDesign()

	require.NoError(t, s.CreateNewDesign("Drop"))
	e := addN(t, s, 1)[0]
	drop, _ := s.SaveCurrentDesign()
	s.SelectElement(e.ID)

	s.DeleteDesign(drop.ID)

	assert.Nil(t, s.CurrentDesign())
	assert.Nil(t, s.SelectedElement())
	saved := s.SavedDesigns()
	require.Len(t, saved, 1)
	assert.Equal(t, keep.ID, saved[0].ID)
	assert.Equal(t, keep.Name, saved[0].Name)

	assert.ErrorIs(t, s.Checked().DeleteDesign(drop.ID), models.ErrDesignNotFound)
}

func TestDeleteOtherDesignKeepsCurrent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Other"))
	other, _ := s.SaveCurrentDesign()
	require.NoError(t, s.CreateNewDesign("Current"))

	s.DeleteDesign(other.ID)
	require.NotNil(t, s.CurrentDesign())
	assert.Equal(t, "Current", s.CurrentDesign().Name)
	assert.Empty(t, s.SavedDesigns())
}

func TestDuplicateDesign(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Bedroom"))
	addN(t, s, 3)
	d, _ := s.SaveCurrentDesign()
	current := s.CurrentDesign()

	dup := s.DuplicateDesign(d)

	assert.NotEqual(t, d.ID, dup.ID)
	assert.Equal(t, "Bedroom Copy", dup.Name)
	require.Len(t, dup.Elements, 3)
	for i := range d.Elements {
		assert.Equal(t, d.Elements[i].X, dup.Elements[i].X)
		assert.Equal(t, d.Elements[i].Width, dup.Elements[i].Width)
		assert.Equal(t, d.Elements[i].Color, dup.Elements[i].Color)
		assert.Equal(t, d.Elements[i].Name, dup.Elements[i].Name)
	}
	assert.True(t, dup.CreatedAt.After(d.CreatedAt))

	saved := s.SavedDesigns()
	require.Len(t, saved, 2)
	assert.Equal(t, dup.ID, saved[0].ID)
	assert.Equal(t, "Bedroom", saved[1].Name)
	assert.Len(t, saved[1].Elements, 3)
	assert.Equal(t, current.ID, s.CurrentDesign().ID)
	assert.Equal(t, "Bedroom", d.Name)
}

func TestUseTemplate(t *testing.T) {
	s := newTestStore(t)
	tpl := &models.Design{ID: "tpl", Name: "Studio", IsTemplate: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	e, _ := models.NewElement(table())
	tpl.Elements = []*models.Element{e}

	d := s.UseTemplate(tpl)
	assert.False(t, d.IsTemplate)
	assert.NotEqual(t, "tpl", d.ID)
	require.Len(t, d.Elements, 1)
	assert.NotEqual(t, e.ID, d.Elements[0].ID)
	assert.Equal(t, d.ID, s.CurrentDesign().ID)
	assert.True(t, tpl.IsTemplate, "template is untouched")
}

func TestDesignStats(t *testing.T) {
	s := newTestStore(t)
	stats := s.DesignStats()
	assert.Equal(t, 0, stats.TotalDesigns)
	assert.Equal(t, 0, stats.AverageElements)
	assert.Nil(t, stats.LastUpdated)

	counts := []int{1, 2, 2}
	for _, n := range counts {
		require.NoError(t, s.CreateNewDesign("D"))
		addN(t, s, n)
		s.SaveCurrentDesign()
	}

	stats = s.DesignStats()
	assert.Equal(t, 3, stats.TotalDesigns)
	assert.Equal(t, 5, stats.TotalElements)
	assert.Equal(t, 2, stats.AverageElements)
	require.NotNil(t, stats.LastUpdated)
	assert.True(t, stats.LastUpdated.Equal(s.SavedDesigns()[0].UpdatedAt))
}

func TestSearchDesignsIdempotent(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"Blue Kitchen", "Garage", "kitchenette"} {
		require.NoError(t, s.CreateNewDesign(name))
		s.SaveCurrentDesign()
	}

	first := s.SearchDesigns("KITCHEN")
	second := s.SearchDesigns("KITCHEN")
	require.Len(t, first, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Len(t, s.SearchDesigns("  "), 3)
}

func TestSetViewMode(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, models.View2D, s.ViewMode())
	require.NoError(t, s.SetViewMode(models.View3D))
	assert.Equal(t, models.View3D, s.ViewMode())
	assert.True(t, models.IsValidation(s.SetViewMode("4d")))
}

func TestLockedElementManipulation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	in := table()
	in.Locked = true
	e, err := s.Checked().AddElement(in)
	require.NoError(t, err)

	assert.ErrorIs(t, s.MoveElement(e.ID, 5, 5), models.ErrElementLocked)
	assert.ErrorIs(t, s.ResizeElement(e.ID, 5, 5), models.ErrElementLocked)
	assert.ErrorIs(t, s.RotateElement(e.ID, 90), models.ErrElementLocked)

	require.NoError(t, s.UpdateElement(e.ID, models.ElementUpdate{X: ptr(99.0)}))
	assert.Equal(t, 99.0, s.CurrentDesign().Elements[0].X)
}

func TestDirectManipulation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("A"))
	e := addN(t, s, 1)[0]

	require.NoError(t, s.MoveElement(e.ID, 5, -5))
	require.NoError(t, s.ResizeElement(e.ID, 70, 30))
	require.NoError(t, s.RotateElement(e.ID, 450))

	got := s.CurrentDesign().Elements[0]
	assert.Equal(t, 5.0, got.X)
	assert.Equal(t, 5.0, got.Y)
	assert.Equal(t, 70.0, got.Width)
	assert.Equal(t, 90.0, got.Rotation)

	assert.NoError(t, s.MoveElement("missing", 1, 1))
	_, err := s.Checked().MoveElement("missing", 1, 1)
	assert.ErrorIs(t, err, models.ErrElementNotFound)
}

func TestUpdateDesignInfo(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Checked().UpdateDesignInfo(DesignInfo{}), models.ErrNoCurrentDesign)

	require.NoError(t, s.CreateNewDesign("A"))
	require.NoError(t, s.UpdateDesignInfo(DesignInfo{
		Description: ptr("sunny"),
		Category:    ptr("living"),
		Room:        &models.Room{Width: 500, Length: 400, Unit: models.RoomUnitCM},
	}))
	d := s.CurrentDesign()
	assert.Equal(t, "sunny", d.Description)
	assert.Equal(t, "living", d.Category)
	assert.Equal(t, models.RoomUnitCM, d.Room.Unit)

	assert.True(t, models.IsValidation(s.UpdateDesignInfo(DesignInfo{Name: ptr(" ")})))
	assert.True(t, models.IsValidation(s.UpdateDesignInfo(DesignInfo{Room: &models.Room{Width: 1, Length: 1, Unit: "feet"}})))
}

// ============================================================
// persistence
// ============================================================

func TestPersistenceRoundTrip(t *testing.T) {
	p := &memPersister{}
	s := newTestStore(t, WithPersister(p))
	require.NoError(t, s.CreateNewDesign("Persisted"))
	addN(t, s, 2)
	s.SaveCurrentDesign()
	require.NoError(t, s.SetViewMode(models.View3D))
	assert.Greater(t, p.saves, 0)

	restored, err := Open(WithPersister(p))
	require.NoError(t, err)
	assert.Equal(t, models.View3D, restored.ViewMode())
	require.NotNil(t, restored.CurrentDesign())
	assert.Len(t, restored.CurrentDesign().Elements, 2)
	assert.Len(t, restored.SavedDesigns(), 1)
	assert.Nil(t, restored.SelectedElement())
}

func TestOpenEmptyAndCorrupt(t *testing.T) {
	s, err := Open(WithPersister(&memPersister{}))
	require.NoError(t, err)
	assert.Nil(t, s.CurrentDesign())

	_, err = Open(WithPersister(&memPersister{data: []byte("{not json")}))
	assert.Error(t, err)

	_, err = Open(WithPersister(&memPersister{data: []byte(`{"savedDesigns":[{"id":"x","name":""}]}`)}))
	assert.Error(t, err)
}

func TestPersistFailureKeepsState(t *testing.T) {
	boom := errors.New("quota exceeded")
	p := &memPersister{fail: boom}
	var warnings []error
	s := newTestStore(t, WithPersister(p), WithPersistWarning(func(err error) {
		warnings = append(warnings, err)
	}))

	require.NoError(t, s.CreateNewDesign("Offline"))
	require.NotNil(t, s.CurrentDesign())
	assert.ErrorIs(t, s.PersistErr(), boom)
	require.Len(t, warnings, 1)

	p.fail = nil
	require.NoError(t, s.AddElement(table()))
	assert.NoError(t, s.PersistErr())
}

func TestConcurrentMutations(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateNewDesign("Busy"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = s.AddElement(table())
				_ = s.SearchDesigns("b")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, s.CurrentDesign().Elements, 200)
}
