package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling average of frame and pose evaluation times.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	evalTimes          [AVG_COUNT]float64
	msAvg              float64
	evalAvg            float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame. Both arguments are in seconds.
func (m *Metrics) Update(frameElapsedTime, evaluationTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	m.evalTimes[m.frameAVGCounter] = evaluationTime * 1000.0
	if m.frameAVGCounter == AVG_COUNT-1 {
		m.msAvg = 0
		m.evalAvg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			m.msAvg += m.msTimes[i]
			m.evalAvg += m.evalTimes[i]
		}
		m.msAvg /= float64(AVG_COUNT)
		m.evalAvg /= float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

// EvaluationTime is the average time, in milliseconds, spent ticking and evaluating poses.
func (m *Metrics) EvaluationTime() float64 {
	return m.evalAvg
}
