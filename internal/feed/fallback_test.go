package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func deadRemote(t *testing.T) *Remote {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	return NewRemote(base, nil, nil)
}

func TestFallbackServesFixtureOnFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewFallback(deadRemote(t), NewFixture(), zap.New(core))

	events, err := f.Events(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 6)
	assert.ErrorIs(t, f.Degraded(), ErrBackend)

	sources, err := f.Sources(context.Background())
	require.NoError(t, err)
	assert.Len(t, sources, 8)

	entries := logs.FilterMessage("backend unavailable, using mock data").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "events", entries[0].ContextMap()["op"])
}

func TestFallbackPassesNotFound(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := newRemote(t, &fakeBackend{})
	f := NewFallback(r, NewFixture(), zap.New(core))

	_, err := f.Event(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, f.Degraded())
	assert.Zero(t, logs.Len())
}

func TestFallbackSilentOnCancel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := NewFallback(newRemote(t, &fakeBackend{}), NewFixture(), zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Events(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, logs.FilterMessage("backend unavailable, using mock data").Len())
}

func TestFallbackWritesSurfaceErrors(t *testing.T) {
	f := NewFallback(deadRemote(t), NewFixture(), nil)
	_, err := f.AddSource(context.Background(), NewSource{Name: "Wire", URL: "wire.example"})
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, f.DeleteSource(context.Background(), "src1"), ErrBackend)
}

func TestNewSelectsProvider(t *testing.T) {
	assert.Equal(t, ModeMock, New(ModeMock, "", nil, nil).Mode())
	p := New(ModeLive, "http://127.0.0.1:1", nil, nil)
	assert.Equal(t, ModeLive, p.Mode())
	_, ok := p.(*Fallback)
	assert.True(t, ok)
}
