package aggregate

import (
	"fmt"
	"math"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// ChannelDisplay is the formatted view of one pump channel.
type ChannelDisplay struct {
	Channel      int     `json:"channel"`
	Runtime      string  `json:"runtime"`
	RuntimeHours float64 `json:"runtime_hours"`
	Flow         string  `json:"flow_liters"`
}

// Summary is the formatted aggregate shown on the dashboard cards.
type Summary struct {
	Channels     []ChannelDisplay `json:"channels"`
	Runtime      string           `json:"runtime_total"`
	RuntimeHours float64          `json:"runtime_hours_total"`
	Flow         string           `json:"flow_liters_total"`
}

// WholeMinutes truncates a runtime to whole minutes.
func WholeMinutes(minutes float64) int64 {
	if minutes <= 0 || math.IsNaN(minutes) {
		return 0
	}
	return int64(math.Floor(minutes))
}

// FormatRuntime renders minutes as "Hh Mm", truncating partial minutes.
func FormatRuntime(minutes float64) string {
	total := WholeMinutes(minutes)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatFlow renders liters with two decimals.
func FormatFlow(liters float64) string {
	return fmt.Sprintf("%.2f", liters)
}

// Hours converts minutes to hours rounded to two decimals.
func Hours(minutes float64) float64 {
	return math.Round(minutes/60*100) / 100
}

// Display formats an aggregate for presentation.
func Display(res models.AggregateResult) Summary {
	s := Summary{
		Channels:     make([]ChannelDisplay, 0, models.Channels),
		Runtime:      FormatRuntime(res.RuntimeMinutesTotal),
		RuntimeHours: Hours(res.RuntimeMinutesTotal),
		Flow:         FormatFlow(res.FlowLitersTotal),
	}
	for ch := 0; ch < models.Channels; ch++ {
		s.Channels = append(s.Channels, ChannelDisplay{
			Channel:      ch + 1,
			Runtime:      FormatRuntime(res.RuntimeMinutes[ch]),
			RuntimeHours: Hours(res.RuntimeMinutes[ch]),
			Flow:         FormatFlow(res.FlowLiters[ch]),
		})
	}
	return s
}
