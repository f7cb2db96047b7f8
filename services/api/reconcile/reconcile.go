// Package reconcile merges the EC and pH feeds onto one timeline.
//
// Runtime channels and continuous signals are filled with different
// policies: a missing runtime sample means the channel reported no activity
// (ZeroFill), while a missing EC or pH sample holds the last known physical
// state (ContinuityFill).
package reconcile

import (
	"sort"
	"time"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// joined is one timestamp of the outer join before filling.
type joined struct {
	ts      time.Time
	ec      *float64
	ph      *float64
	runtime [models.Channels]*float64
}

// Reconcile outer-joins the two feeds on timestamp and applies the fill
// policies. If either feed is empty the result is an empty series.
func Reconcile(ec, ph []models.Reading) models.UnifiedSeries {
	if len(ec) == 0 || len(ph) == 0 {
		return models.UnifiedSeries{}
	}

	rows := make(map[int64]*joined, len(ec)+len(ph))
	for _, r := range Dedupe(ec) {
		row := rowFor(rows, r.Timestamp)
		row.ec = r.EC
		for ch := 0; ch < 3; ch++ {
			row.runtime[ch] = r.Runtime[ch]
		}
	}
	for _, r := range Dedupe(ph) {
		row := rowFor(rows, r.Timestamp)
		row.ph = r.PH
		row.runtime[3] = r.Runtime[3]
	}

	ordered := make([]*joined, 0, len(rows))
	for _, row := range rows {
		ordered = append(ordered, row)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ts.Before(ordered[j].ts)
	})

	readings := make([]models.UnifiedReading, len(ordered))
	ecCol := make([]*float64, len(ordered))
	phCol := make([]*float64, len(ordered))
	for i, row := range ordered {
		readings[i].Timestamp = row.ts
		readings[i].Runtime = ZeroFill(row.runtime)
		ecCol[i] = row.ec
		phCol[i] = row.ph
	}

	ecCol = ContinuityFill(ecCol)
	phCol = ContinuityFill(phCol)
	for i := range readings {
		readings[i].EC = ecCol[i]
		readings[i].PH = phCol[i]
	}

	return models.UnifiedSeries{Readings: readings}
}

// Dedupe collapses readings sharing a timestamp, keeping the last one seen.
// Input order is otherwise preserved by first appearance.
func Dedupe(readings []models.Reading) []models.Reading {
	pos := make(map[int64]int, len(readings))
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		key := r.Timestamp.Unix()
		if i, ok := pos[key]; ok {
			out[i] = r
			continue
		}
		pos[key] = len(out)
		out = append(out, r)
	}
	return out
}

// ZeroFill replaces absent cumulative runtime samples with 0.
func ZeroFill(runtime [models.Channels]*float64) [models.Channels]float64 {
	var out [models.Channels]float64
	for ch, v := range runtime {
		if v != nil {
			out[ch] = *v
		}
	}
	return out
}

// ContinuityFill forward-fills absent values from the nearest earlier value,
// then back-fills any leading gap from the first present value. A column with
// no present value stays absent. The input must be in timestamp order.
func ContinuityFill(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	var last *float64
	for i, v := range values {
		if v != nil {
			c := *v
			last = &c
		}
		out[i] = last
	}

	var next *float64
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != nil {
			next = out[i]
			continue
		}
		out[i] = next
	}
	return out
}

func rowFor(rows map[int64]*joined, ts time.Time) *joined {
	key := ts.Unix()
	row, ok := rows[key]
	if !ok {
		row = &joined{ts: ts}
		rows[key] = row
	}
	return row
}
