package core

import "github.com/spaghettifunk/facet/engine/containers"

const AVG_COUNT = 30

// Metrics keeps a rolling frame time average and frames per second.
type Metrics struct {
	msTimes            *containers.RingQueue[float64]
	msSum              float64
	msAVG              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		msTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records a frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	if oldest, dropped := m.msTimes.Push(frameMS); dropped {
		m.msSum -= oldest
	}
	m.msSum += frameMS
	m.msAVG = m.msSum / float64(m.msTimes.Len())

	m.frames++
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the last AVG_COUNT frames.
func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAVG
}
