package metrics

import (
	"time"

	"github.com/google/uuid"
)

// RunMetric summarises one invocation of a planning or learning algorithm.
type RunMetric struct {
	ID              string
	Algorithm       string
	Environment     string
	StartTime       time.Time
	Duration        time.Duration
	Episodes        int
	Steps           int
	Sweeps          int
	PlanningUpdates int
	FinalDelta      float64
	Returns         []float64 // Undiscounted return of every episode, in order
}

// MeanReturn averages the last window episode returns (all of them when window <= 0).
func (r RunMetric) MeanReturn(window int) float64 {
	returns := r.Returns
	if window > 0 && len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	if len(returns) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range returns {
		sum += v
	}
	return sum / float64(len(returns))
}

type Collector interface {
	Start(algorithm string)
	AddSweep(delta float64)
	AddEpisode(steps int, ret float64)
	AddPlanningUpdate()
	Stop()
	Complete() RunMetric
}

type collector struct {
	metric  RunMetric
	endTime time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string) {
	m.metric = RunMetric{
		ID:        uuid.NewString(),
		Algorithm: algorithm,
		StartTime: time.Now(),
	}
	m.endTime = time.Time{}
}

func (m *collector) AddSweep(delta float64) {
	m.metric.Sweeps++
	m.metric.FinalDelta = delta
}

func (m *collector) AddEpisode(steps int, ret float64) {
	m.metric.Episodes++
	m.metric.Steps += steps
	m.metric.Returns = append(m.metric.Returns, ret)
}

func (m *collector) AddPlanningUpdate() {
	m.metric.PlanningUpdates++
}

func (m *collector) Stop() {
	m.endTime = time.Now()
}

func (m *collector) Complete() RunMetric {
	metric := m.metric
	if m.endTime.IsZero() {
		metric.Duration = time.Since(metric.StartTime)
	} else {
		metric.Duration = m.endTime.Sub(metric.StartTime)
	}
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string)            {}
func (m *dummyCollector) AddSweep(delta float64)            {}
func (m *dummyCollector) AddEpisode(steps int, ret float64) {}
func (m *dummyCollector) AddPlanningUpdate()                {}
func (m *dummyCollector) Stop()                             {}
func (m *dummyCollector) Complete() RunMetric               { return RunMetric{} }
