package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

type blockingWorker struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (w *blockingWorker) Run(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	w.stopped.Store(true)
}

// fakeUI returns its preset result at once, or blocks until ctx is done
// when block is set.
type fakeUI struct {
	logout bool
	err    error
	block  bool

	ran     atomic.Bool
	running chan struct{}
}

func newFakeUI() *fakeUI {
	return &fakeUI{running: make(chan struct{})}
}

func (u *fakeUI) MainLoop(ctx context.Context) (bool, error) {
	u.ran.Store(true)
	close(u.running)
	if u.block {
		<-ctx.Done()
		return false, nil
	}
	return u.logout, u.err
}

func TestApp_RunUntilQuit(t *testing.T) {
	engine := newFakeEngine()
	worker := &blockingWorker{}
	ui := newFakeUI()

	app := NewApp(engine, worker, ui, "u-1", logger.Nop())
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, "u-1", engine.startedFor)
	assert.True(t, ui.ran.Load())
	assert.True(t, engine.ended)
	assert.False(t, engine.clearCache)
	assert.True(t, worker.stopped.Load())
}

func TestApp_LogoutWipesCache(t *testing.T) {
	engine := newFakeEngine()
	ui := newFakeUI()
	ui.logout = true

	app := NewApp(engine, nil, ui, "u-1", logger.Nop())
	require.NoError(t, app.Run(context.Background()))

	assert.True(t, engine.clearCache)
}

func TestApp_UIErrorStillEndsSession(t *testing.T) {
	engine := newFakeEngine()
	ui := newFakeUI()
	ui.err = errors.New("no terminal")

	app := NewApp(engine, nil, ui, "u-1", logger.Nop())
	err := app.Run(context.Background())

	require.ErrorIs(t, err, ui.err)
	assert.True(t, engine.ended)
	assert.False(t, engine.clearCache)
}

func TestApp_SessionStartFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.startErr = errors.New("token rejected")
	worker := &blockingWorker{}
	ui := newFakeUI()

	app := NewApp(engine, worker, ui, "u-1", logger.Nop())
	err := app.Run(context.Background())

	require.ErrorIs(t, err, engine.startErr)
	assert.False(t, engine.ended)
	assert.False(t, worker.started.Load())
	assert.False(t, ui.ran.Load())
}

func TestApp_AuthFailureSignsOut(t *testing.T) {
	engine := newFakeEngine()
	ui := newFakeUI()
	ui.block = true

	app := NewApp(engine, nil, ui, "u-1", logger.Nop())

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	<-ui.running
	app.OnAuthFailure(errors.New("401"))
	app.OnAuthFailure(errors.New("401 again"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSessionRevoked)
	case <-time.After(time.Second):
		t.Fatal("app did not stop after auth failure")
	}
	assert.True(t, engine.clearCache)
}

func TestApp_ContextCancelEndsSession(t *testing.T) {
	engine := newFakeEngine()
	ui := newFakeUI()
	ui.block = true

	ctx, cancel := context.WithCancel(context.Background())
	app := NewApp(engine, nil, ui, "u-1", logger.Nop())

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	<-ui.running
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.True(t, engine.ended)
	assert.False(t, engine.clearCache)
}
