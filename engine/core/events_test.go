package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetEvents(t *testing.T) {
	t.Helper()
	require.NoError(t, EventShutdown())
	require.True(t, EventInitialize())
	t.Cleanup(func() { _ = EventShutdown() })
}

func TestEventFireReachesListener(t *testing.T) {
	resetEvents(t)

	var got uint32
	listener := &struct{}{}
	ok := EventRegister(EVENT_CODE_RESIZED, listener, func(code SystemEventCode, sender, l interface{}, data EventContext) bool {
		assert.Equal(t, EVENT_CODE_RESIZED, code)
		assert.Same(t, listener, l)
		got = data.Data.U32[0]
		return true
	})
	require.True(t, ok)

	ctx := EventContext{}
	ctx.Data.U32[0] = 640
	assert.True(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, uint32(640), got)
}

func TestEventRegisterRejectsDuplicates(t *testing.T) {
	resetEvents(t)

	listener := &struct{}{}
	cb := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }
	assert.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, listener, cb))
	assert.False(t, EventRegister(EVENT_CODE_KEY_PRESSED, listener, cb))
	assert.True(t, EventUnregister(EVENT_CODE_KEY_PRESSED, listener))
	assert.False(t, EventUnregister(EVENT_CODE_KEY_PRESSED, listener))
}

func TestEventHandledStopsPropagation(t *testing.T) {
	resetEvents(t)

	calls := 0
	first, second := &struct{ a int }{}, &struct{ b int }{}
	EventRegister(EVENT_CODE_APPLICATION_QUIT, first, func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		calls++
		return true
	})
	EventRegister(EVENT_CODE_APPLICATION_QUIT, second, func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		calls++
		return true
	})
	EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{})
	assert.Equal(t, 1, calls)
}

func TestEventFireWithoutSystem(t *testing.T) {
	require.NoError(t, EventShutdown())
	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, nil, nil))
}

func TestInputProcessKeyFiresOnChange(t *testing.T) {
	resetEvents(t)
	require.NoError(t, InputInitialize())
	t.Cleanup(func() { _ = InputShutdown() })

	var pressed []KeyCode
	EventRegister(EVENT_CODE_KEY_PRESSED, t, func(_ SystemEventCode, _, _ interface{}, data EventContext) bool {
		pressed = append(pressed, KeyCode(data.Data.U16[0]))
		return false
	})

	require.NoError(t, InputProcessKey(KEY_M, true))
	require.NoError(t, InputProcessKey(KEY_M, true))
	assert.Equal(t, []KeyCode{KEY_M}, pressed)
	assert.True(t, InputIsKeyDown(KEY_M))
	assert.False(t, InputWasKeyDown(KEY_M))

	require.NoError(t, InputUpdate(0))
	assert.True(t, InputWasKeyDown(KEY_M))

	require.NoError(t, InputProcessKey(KEY_M, false))
	assert.True(t, InputIsKeyUp(KEY_M))
}

func TestGPUErrorUnwraps(t *testing.T) {
	cause := errors.New("no adapter")
	err := error(NewGPUError(GPUErrorAdapterRequest, cause))

	assert.ErrorIs(t, err, cause)
	var gpuErr *GPUError
	require.ErrorAs(t, err, &gpuErr)
	assert.Equal(t, GPUErrorAdapterRequest, gpuErr.Kind)
	assert.Equal(t, "adapter request failed: no adapter", err.Error())
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" WARN ":  LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"bogus":   LogLevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
	assert.Equal(t, "warn", LogLevelWarn.String())
}

func TestClockElapsed(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestMetricsAverages(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)

	// the window slides: one slow frame replaces the oldest fast one
	m.Update(0.040)
	assert.InDelta(t, 11.0, m.FrameTime(), 1e-9)

	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	assert.Greater(t, m.FPS(), 0.0)
}
