package models

import (
	"fmt"
	"strings"
)

// Metric names a continuous signal shown on the chart.
type Metric string

const (
	MetricEC Metric = "EC"
	MetricPH Metric = "PH"
)

// AllMetrics lists the chartable metrics in display order.
var AllMetrics = []Metric{MetricEC, MetricPH}

// MetricSet is the set of enabled metrics for a query.
type MetricSet map[Metric]bool

// NewMetricSet builds a set from the given metrics.
func NewMetricSet(metrics ...Metric) MetricSet {
	set := make(MetricSet, len(metrics))
	for _, m := range metrics {
		set[m] = true
	}
	return set
}

// Has reports whether m is enabled.
func (s MetricSet) Has(m Metric) bool {
	return s[m]
}

// List returns the enabled metrics in display order.
func (s MetricSet) List() []Metric {
	out := make([]Metric, 0, len(s))
	for _, m := range AllMetrics {
		if s[m] {
			out = append(out, m)
		}
	}
	return out
}

// String renders the set as a comma separated list.
func (s MetricSet) String() string {
	names := make([]string, 0, len(s))
	for _, m := range s.List() {
		names = append(names, string(m))
	}
	return strings.Join(names, ",")
}

// ParseMetric parses a single metric name, case-insensitive.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(MetricEC):
		return MetricEC, nil
	case string(MetricPH):
		return MetricPH, nil
	default:
		return "", fmt.Errorf("unknown metric %q (valid: EC, PH)", name)
	}
}

// ParseMetrics parses a comma separated list such as "EC,PH". Blank entries
// are skipped, so an empty string yields an empty set.
func ParseMetrics(list string) (MetricSet, error) {
	set := make(MetricSet)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseMetric(part)
		if err != nil {
			return nil, err
		}
		set[m] = true
	}
	return set, nil
}
