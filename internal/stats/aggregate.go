package stats

import (
	"math"
	"slices"
	"sort"
)

// SeriesPoint is the summed count for one (year, data type) pair.
type SeriesPoint struct {
	Year     int     `json:"year"`
	DataType string  `json:"dataType"`
	Count    float64 `json:"count"`
}

// TimeSeries is ordered by year ascending, then data type.
type TimeSeries struct {
	Points  []SeriesPoint `json:"points"`
	Skipped int           `json:"skipped"`
}

// IsEmpty reports whether there is nothing to plot.
func (ts TimeSeries) IsEmpty() bool {
	return len(ts.Points) == 0
}

// DataTypes returns the distinct data types in order of first appearance.
func (ts TimeSeries) DataTypes() []string {
	var out []string
	for _, p := range ts.Points {
		if !slices.Contains(out, p.DataType) {
			out = append(out, p.DataType)
		}
	}
	return out
}

// Slice is one category's share of a breakdown.
type Slice struct {
	Label string  `json:"label"`
	Count float64 `json:"count"`
}

// Breakdown follows the allow-list order. Categories with no records are omitted.
type Breakdown struct {
	Slices  []Slice `json:"slices"`
	Skipped int     `json:"skipped"`
}

func (b Breakdown) IsEmpty() bool {
	return len(b.Slices) == 0
}

// Total sums all slices.
func (b Breakdown) Total() float64 {
	var t float64
	for _, s := range b.Slices {
		t += s.Count
	}
	return t
}

// AggregateTimeSeries sums counts by (year, data type) for records from
// yearFrom onwards whose cancer type is in allow. Counts that cannot be parsed
// are excluded from the sums and reported in Skipped.
func AggregateTimeSeries(records []CancerRecord, yearFrom int, allow []string) TimeSeries {
	type key struct {
		year     int
		dataType string
	}
	sums := make(map[key]float64)
	var skipped int

	for _, r := range records {
		if r.Year < yearFrom || !slices.Contains(allow, r.CancerType) {
			continue
		}
		n, ok := coerce(r.Count)
		if !ok {
			skipped++
			continue
		}
		sums[key{r.Year, r.DataType}] += n
	}

	points := make([]SeriesPoint, 0, len(sums))
	for k, v := range sums {
		points = append(points, SeriesPoint{Year: k.year, DataType: k.dataType, Count: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].DataType < points[j].DataType
	})

	return TimeSeries{Points: points, Skipped: skipped}
}

// AggregateByCategory sums counts by sex for records whose sex is in allowed.
func AggregateByCategory(records []CancerRecord, allowed []string) Breakdown {
	sums := make(map[string]float64, len(allowed))
	seen := make(map[string]bool, len(allowed))
	var skipped int

	for _, r := range records {
		if !slices.Contains(allowed, r.Sex) {
			continue
		}
		n, ok := coerce(r.Count)
		if !ok {
			skipped++
			continue
		}
		sums[r.Sex] += n
		seen[r.Sex] = true
	}

	out := Breakdown{Skipped: skipped}
	for _, label := range allowed {
		if seen[label] {
			out.Slices = append(out.Slices, Slice{Label: label, Count: sums[label]})
			seen[label] = false
		}
	}
	return out
}

func coerce(raw string) (float64, bool) {
	n, err := ParseCount(raw)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
