package feed

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// Column names as exported by the controller.
const (
	ColTimestamp = "Date and Time"
	ColRuntime1  = "Hora lig 1"
	ColRuntime2  = "Hora lig 2"
	ColRuntime3  = "Hora lig 3"
	ColRuntime4  = "Hora lig 4"
	ColEC        = "EC da água"
	ColPH        = "Média do PH"
)

// ErrMissingColumn is returned when a feed lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// DefaultLayouts are the timestamp formats tried in order.
var DefaultLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// Parser turns raw feed tables into readings.
type Parser struct {
	Layouts  []string
	Location *time.Location
}

// NewParser returns a parser using the given layouts, falling back to
// DefaultLayouts and UTC when unset.
func NewParser(layouts []string, loc *time.Location) Parser {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	if loc == nil {
		loc = time.UTC
	}
	return Parser{Layouts: layouts, Location: loc}
}

// ParseTimestamp parses s with the first matching layout, truncated to the
// second.
func (p Parser) ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Second), true
		}
	}
	return time.Time{}, false
}

// ParseDecimal parses a decimal-comma number. Anything unparsable, NaN or
// infinite yields nil.
func ParseDecimal(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseEC parses the EC feed. Rows without a timestamp or EC value are
// dropped; runtime channels 1-3 may be absent.
func (p Parser) ParseEC(t Table) ([]models.Reading, error) {
	idx, err := columns(t, ColTimestamp, ColRuntime1, ColRuntime2, ColRuntime3, ColEC)
	if err != nil {
		return nil, err
	}

	out := make([]models.Reading, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		ts, ok := p.ParseTimestamp(field(row, idx[0]))
		ec := ParseDecimal(field(row, idx[4]))
		if !ok || ec == nil {
			dropped++
			continue
		}
		r := models.Reading{Timestamp: ts, EC: ec}
		r.Runtime[0] = ParseDecimal(field(row, idx[1]))
		r.Runtime[1] = ParseDecimal(field(row, idx[2]))
		r.Runtime[2] = ParseDecimal(field(row, idx[3]))
		out = append(out, r)
	}
	logDropped(t.Name, dropped, len(t.Rows))
	return out, nil
}

// ParsePH parses the pH feed, keeping only the timestamp, channel 4 runtime
// and pH value. Absent pH values are kept; only rows without a timestamp are
// dropped.
func (p Parser) ParsePH(t Table) ([]models.Reading, error) {
	idx, err := columns(t, ColTimestamp, ColRuntime4, ColPH)
	if err != nil {
		return nil, err
	}

	out := make([]models.Reading, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		ts, ok := p.ParseTimestamp(field(row, idx[0]))
		if !ok {
			dropped++
			continue
		}
		r := models.Reading{Timestamp: ts, PH: ParseDecimal(field(row, idx[2]))}
		r.Runtime[3] = ParseDecimal(field(row, idx[1]))
		out = append(out, r)
	}
	logDropped(t.Name, dropped, len(t.Rows))
	return out, nil
}

func columns(t Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q", t.Name, ErrMissingColumn, name)
		}
		idx[i] = pos
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func logDropped(name string, dropped, total int) {
	if dropped > 0 {
		log.Printf("feed %s: dropped %d of %d rows (unparsable timestamp or value)", name, dropped, total)
	}
}
