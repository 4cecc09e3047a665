package bubble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountSkipsDuplicateIDs(t *testing.T) {
	e := NewEngine(DefaultParams())
	items := append(headlineItems(), Item{ID: "1", Title: "duplicate"})
	e.Mount(items, 800, 600)

	assert.Equal(t, 6, e.Len())
	assert.Len(t, e.Items(), 6)
	assert.Equal(t, "Global Climate Accord Reached", e.Items()[0].Title)
}

func TestMountDiscardsPreviousState(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	for i := 0; i < 10; i++ {
		e.Step()
	}
	require.Equal(t, 10, e.FrameIndex())

	e.Mount(headlineItems()[:2], 400, 400)

	assert.Equal(t, 0, e.FrameIndex())
	assert.Equal(t, 2, e.Len())
	_, ok := e.Body("3")
	assert.False(t, ok)
	w, h := e.Size()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 400.0, h)
}

func TestSnapshotFollowsItemOrder(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)

	f := e.Snapshot()
	require.Len(t, f.Bodies, 6)
	for i, it := range headlineItems() {
		assert.Equal(t, it.ID, f.Bodies[i].Item.ID)
	}

	f.Bodies[0].Body.R = -1
	b, _ := e.Body("1")
	assert.Positive(t, b.R, "snapshot must not alias engine state")
}

func TestAtPicksTopmost(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.Mount([]Item{{ID: "under", Title: "a"}, {ID: "over", Title: "b"}}, 800, 600)
	for _, b := range e.bodies {
		b.Pos.X, b.Pos.Y = 400, 300
	}

	it, ok := e.At(400, 300)
	require.True(t, ok)
	assert.Equal(t, "over", it.ID)

	_, ok = e.At(1, 1)
	assert.False(t, ok)
}

func TestSetParamsRebuilds(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)

	p := DefaultParams()
	p.MinRadius, p.MaxRadius = 20, 40
	e.SetParams(p)

	for _, pl := range e.Snapshot().Bodies {
		assert.GreaterOrEqual(t, pl.Body.R, 20.0)
		assert.LessOrEqual(t, pl.Body.R, 40.0)
	}
	assert.Equal(t, p, e.Params())
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.Friction = 1.5
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidParams)
	var pe *ParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "friction", pe.Name)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CollisionPolicy
		wantErr bool
	}{
		{"", PolicyAbsorb, false},
		{"absorb", PolicyAbsorb, false},
		{"elastic", PolicyElastic, false},
		{"sticky", PolicyAbsorb, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidParams, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
