package results

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Criterion keeps rows whose value in Column passes Threshold. Descending
// statistics pass when greater than the threshold, all others when less.
// Fold change is compared by magnitude so both directions of change pass.
type Criterion struct {
	Column    int
	Statistic Statistic
	Threshold float64
}

// sortKey returns the value a criterion or sort looks at.
func sortKey(value float64, statistic Statistic) float64 {
	if statistic == FoldChange {
		return math.Abs(value)
	}
	return value
}

// Passes reports whether the row meets the criterion. NaN never passes.
func (c Criterion) Passes(row ProbesetRow) bool {
	value := row.Value(c.Column)
	if math.IsNaN(value) {
		return false
	}
	value = sortKey(value, c.Statistic)
	threshold := sortKey(c.Threshold, c.Statistic)
	if c.Statistic.Descending() {
		return value > threshold
	}
	return value < threshold
}

// Filter returns the rows meeting every criterion, in their original order.
func Filter(rows []ProbesetRow, criteria ...Criterion) []ProbesetRow {
	kept := make([]ProbesetRow, 0, len(rows))
	for _, row := range rows {
		passes := true
		for _, criterion := range criteria {
			if !criterion.Passes(row) {
				passes = false
				break
			}
		}
		if passes {
			kept = append(kept, row)
		}
	}
	return kept
}

// Sort returns the rows ordered by column, most significant first: descending
// for F observed and fold change, ascending otherwise. Fold change sorts by
// magnitude. NaN sorts last and ties keep their order.
func Sort(rows []ProbesetRow, column int, statistic Statistic) []ProbesetRow {
	sorted := append([]ProbesetRow{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := sorted[i].Value(column)
		b := sorted[j].Value(column)
		switch {
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		}
		a, b = sortKey(a, statistic), sortKey(b, statistic)
		if statistic.Descending() {
			return a > b
		}
		return a < b
	})
	return sorted
}

// Summary describes the non-NaN values of a column.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Summarize computes a Summary of column over rows.
func Summarize(rows []ProbesetRow, column int) (Summary, error) {
	data := make(stats.Float64Data, 0, len(rows))
	for _, row := range rows {
		if value := row.Value(column); !math.IsNaN(value) {
			data = append(data, value)
		}
	}
	if len(data) == 0 {
		return Summary{}, errors.Errorf("column %d has no values", column)
	}

	var summary Summary
	var err error
	summary.Count = data.Len()
	if summary.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if summary.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if summary.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if summary.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
