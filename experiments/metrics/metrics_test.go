package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("records episodes, sweeps and planning updates", func(t *testing.T) {
		c := NewCollector()
		c.Start("dyna-q")
		c.AddEpisode(3, 1)
		c.AddEpisode(5, -1)
		c.AddPlanningUpdate()
		c.AddSweep(0.5)
		c.AddSweep(0.01)
		c.Stop()

		got := c.Complete()
		require.NotEmpty(t, got.ID, "Run should get an identifier")
		require.Equal(t, "dyna-q", got.Algorithm)
		require.Equal(t, 2, got.Episodes)
		require.Equal(t, 8, got.Steps)
		require.Equal(t, []float64{1, -1}, got.Returns)
		require.Equal(t, 1, got.PlanningUpdates)
		require.Equal(t, 2, got.Sweeps)
		require.Equal(t, 0.01, got.FinalDelta, "Last sweep delta should be kept")
		require.Equal(t, got.Duration, c.Complete().Duration, "Stopped run should report a fixed duration")
	})

	t.Run("start resets previous run", func(t *testing.T) {
		c := NewCollector()
		c.Start("sarsa")
		c.AddEpisode(1, 1)
		first := c.Complete().ID
		c.Start("sarsa")
		got := c.Complete()
		require.Zero(t, got.Episodes)
		require.NotEqual(t, first, got.ID)
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start("q-learning")
		c.AddEpisode(1, 1)
		require.Equal(t, RunMetric{}, c.Complete())
	})
}

func TestMeanReturn(t *testing.T) {
	run := RunMetric{Returns: []float64{-1, 1, 1, 1}}
	require.InDelta(t, 0.5, run.MeanReturn(0), 1e-12)
	require.InDelta(t, 1.0, run.MeanReturn(2), 1e-12, "Window should keep the latest episodes")
	require.Zero(t, RunMetric{}.MeanReturn(10))
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	require.Equal(t, []float64{2, 3, 5, 7}, got)
	require.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 0), "Window below 1 should not smooth")
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "bench")
	require.NoError(t, err)

	runs := []RunMetric{
		{ID: "a", Algorithm: "q-learning", Environment: "lineworld", Episodes: 2, Returns: []float64{1, -1}},
		{ID: "b", Algorithm: "value-iteration", Environment: "lineworld", Sweeps: 4},
	}

	t.Run("runs file has a header and one row per run", func(t *testing.T) {
		require.NoError(t, w.WriteRuns(runs))
		rows := readCSV(t, filepath.Join(w.Dir(), "runs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"a", "q-learning", "lineworld", "2"}, rows[1][:4])
		require.Equal(t, "4", rows[2][5], "Sweeps column should be filled")
	})

	t.Run("returns file has one row per episode", func(t *testing.T) {
		require.NoError(t, w.WriteReturns(runs))
		rows := readCSV(t, filepath.Join(w.Dir(), "returns.csv"))
		require.Equal(t, [][]string{{"run", "episode", "return"}, {"a", "1", "1"}, {"a", "2", "-1"}}, rows)
	})

	t.Run("chart is rendered for learning runs", func(t *testing.T) {
		require.NoError(t, w.WriteChart(runs, 1))
		info, err := os.Stat(filepath.Join(w.Dir(), "learning_curves.html"))
		require.NoError(t, err)
		require.Positive(t, info.Size())
	})
}

func TestWriterReportsFlushErrors(t *testing.T) {
	// Writes to /dev/full fail with ENOSPC once the buffered rows are flushed.
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full is not available")
	}
	w, err := NewWriter(t.TempDir(), "bench")
	require.NoError(t, err)
	runs := []RunMetric{{ID: "a", Algorithm: "q-learning", Episodes: 1, Returns: []float64{1}}}

	for _, file := range []string{"runs.csv", "returns.csv"} {
		require.NoError(t, os.Symlink("/dev/full", filepath.Join(w.Dir(), file)))
	}

	require.Error(t, w.WriteRuns(runs))
	require.Error(t, w.WriteReturns(runs))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
