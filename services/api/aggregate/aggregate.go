package aggregate

import (
	"time"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// LitersPerMinute is the flow of the installed pumps while running.
const LitersPerMinute = 4.0

// DailyTotal is the last cumulative runtime reported on one calendar day.
type DailyTotal struct {
	Date    time.Time `json:"date"`
	Minutes float64   `json:"minutes"`
}

// Aggregate computes per-channel runtime and flow for the readings in the
// given month (nil for all). An empty range yields a zero result.
func Aggregate(series models.UnifiedSeries, month *int) models.AggregateResult {
	var res models.AggregateResult
	readings := series.FilterMonth(month)
	if len(readings) == 0 {
		return res
	}

	for ch := 0; ch < models.Channels; ch++ {
		minutes := SumDaily(DailyLast(readings, ch))
		res.RuntimeMinutes[ch] = minutes
		res.RuntimeMinutesTotal += minutes
		res.FlowLiters[ch] = Flow(minutes)
		res.FlowLitersTotal += res.FlowLiters[ch]
	}
	return res
}

// DailyLast groups readings by calendar date and keeps the last runtime value
// of the channel (0-based) for each day. Readings must be in timestamp order.
func DailyLast(readings []models.UnifiedReading, channel int) []DailyTotal {
	out := make([]DailyTotal, 0)
	for _, r := range readings {
		date := dateOf(r.Timestamp)
		v := r.Runtime[channel]
		if n := len(out); n > 0 && out[n-1].Date.Equal(date) {
			out[n-1].Minutes = v
			continue
		}
		out = append(out, DailyTotal{Date: date, Minutes: v})
	}
	return out
}

// SumDaily sums per-day totals.
func SumDaily(days []DailyTotal) float64 {
	var sum float64
	for _, d := range days {
		sum += d.Minutes
	}
	return sum
}

// Flow converts pump runtime minutes to liters.
func Flow(minutes float64) float64 {
	return minutes * LitersPerMinute
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
