package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRuns(runs []RunMetric) error {
	path := filepath.Join(w.baseDir, "runs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create runs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"id", "algorithm", "environment", "episodes", "steps", "sweeps", "planning_updates", "final_delta", "duration", "mean_return"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write runs header: %w", err)
	}

	for _, run := range runs {
		row := []string{
			run.ID,
			run.Algorithm,
			run.Environment,
			strconv.Itoa(run.Episodes),
			strconv.Itoa(run.Steps),
			strconv.Itoa(run.Sweeps),
			strconv.Itoa(run.PlanningUpdates),
			strconv.FormatFloat(run.FinalDelta, 'g', -1, 64),
			run.Duration.String(),
			strconv.FormatFloat(run.MeanReturn(0), 'g', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write run row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteReturns(runs []RunMetric) error {
	path := filepath.Join(w.baseDir, "returns.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create returns file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write([]string{"run", "episode", "return"})
	if err != nil {
		return fmt.Errorf("failed to write returns header: %w", err)
	}

	for _, run := range runs {
		for i, ret := range run.Returns {
			row := []string{
				run.ID,
				strconv.Itoa(i + 1),
				strconv.FormatFloat(ret, 'g', -1, 64),
			}
			err = writer.Write(row)
			if err != nil {
				return fmt.Errorf("failed to write return row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
