package models

import (
	"sort"
	"time"
)

// Channels is the number of pump outputs reported by the controller.
const Channels = 4

// Reading is one parsed row of a feed. Nil fields were absent or unparsable.
type Reading struct {
	Timestamp time.Time
	EC        *float64
	PH        *float64
	Runtime   [Channels]*float64
}

// UnifiedReading is one row of the reconciled timeline.
type UnifiedReading struct {
	Timestamp time.Time         `json:"ts"`
	EC        *float64          `json:"ec"`
	PH        *float64          `json:"ph"`
	Runtime   [Channels]float64 `json:"runtime_minutes"`
}

// UnifiedSeries is the reconciled timeline, ordered by timestamp with one
// reading per distinct timestamp. It must not be mutated after construction.
type UnifiedSeries struct {
	Readings []UnifiedReading
}

// Len returns the number of readings.
func (s UnifiedSeries) Len() int {
	return len(s.Readings)
}

// Empty reports whether the series holds no readings.
func (s UnifiedSeries) Empty() bool {
	return len(s.Readings) == 0
}

// FilterMonth returns the readings whose timestamp falls in the given month
// (1..12, any year). A nil month returns every reading. The returned slice
// shares the backing array and must be treated as read-only.
func (s UnifiedSeries) FilterMonth(month *int) []UnifiedReading {
	if month == nil {
		return s.Readings
	}
	out := make([]UnifiedReading, 0)
	for _, r := range s.Readings {
		if int(r.Timestamp.Month()) == *month {
			out = append(out, r)
		}
	}
	return out
}

// Months returns the distinct months present in the series, ascending.
func (s UnifiedSeries) Months() []int {
	seen := make(map[int]struct{})
	for _, r := range s.Readings {
		seen[int(r.Timestamp.Month())] = struct{}{}
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// AggregateResult holds per-channel runtime and derived flow for a period.
type AggregateResult struct {
	RuntimeMinutes      [Channels]float64 `json:"runtime_minutes"`
	RuntimeMinutesTotal float64           `json:"runtime_minutes_total"`
	FlowLiters          [Channels]float64 `json:"flow_liters"`
	FlowLitersTotal     float64           `json:"flow_liters_total"`
}

// ChartPoint is one long-form chart entry.
type ChartPoint struct {
	Timestamp time.Time `json:"ts"`
	Metric    Metric    `json:"metric"`
	Value     *float64  `json:"value"`
	Visible   bool      `json:"visible"`
}

// AnnotationKind marks an extremum.
type AnnotationKind string

const (
	AnnotationMax AnnotationKind = "max"
	AnnotationMin AnnotationKind = "min"
)

// Annotation marks the maximum or minimum reading of a visible metric.
type Annotation struct {
	Metric    Metric         `json:"metric"`
	Kind      AnnotationKind `json:"kind"`
	Timestamp time.Time      `json:"ts"`
	Value     float64        `json:"value"`
}

// ChartSeries is the chart-ready view of a query.
type ChartSeries struct {
	Points      []ChartPoint `json:"points"`
	Annotations []Annotation `json:"annotations"`
}

// Empty reports whether the chart has no points.
func (c ChartSeries) Empty() bool {
	return len(c.Points) == 0
}
