package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/aggregate"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/feed"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/query"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/reconcile"
)

// Dataset is an immutable, reconciled snapshot of both feeds.
type Dataset struct {
	series   models.UnifiedSeries
	months   []int
	loadedAt time.Time
}

// Request selects the period and metrics of one dashboard query.
type Request struct {
	Month   *int
	Metrics models.MetricSet
}

// Result is everything the dashboard renders for one request.
type Result struct {
	Aggregate models.AggregateResult `json:"aggregate"`
	Display   aggregate.Summary      `json:"display"`
	Chart     models.ChartSeries     `json:"chart"`
}

// Empty reports whether the request matched no readings.
func (r Result) Empty() bool {
	return r.Chart.Empty()
}

// Build loads, parses and reconciles both feeds. It never fails: feeds that
// cannot be loaded contribute no readings.
func Build(ctx context.Context, ecSrc, phSrc feed.Source, parser feed.Parser) *Dataset {
	ec := feed.LoadFeed(ctx, ecSrc, parser.ParseEC)
	ph := feed.LoadFeed(ctx, phSrc, parser.ParsePH)

	ds := NewDataset(reconcile.Reconcile(ec, ph))
	if ds.series.Empty() {
		log.Printf("dataset is empty (ec=%d ph=%d readings)", len(ec), len(ph))
	} else {
		log.Printf("dataset built: %d readings, months %v", ds.series.Len(), ds.months)
	}
	return ds
}

// NewDataset wraps an already reconciled series.
func NewDataset(series models.UnifiedSeries) *Dataset {
	return &Dataset{
		series:   series,
		months:   series.Months(),
		loadedAt: time.Now().UTC(),
	}
}

// Series returns the reconciled series. Callers must not modify it.
func (d *Dataset) Series() models.UnifiedSeries {
	return d.series
}

// Months returns the months with data, ascending.
func (d *Dataset) Months() []int {
	out := make([]int, len(d.months))
	copy(out, d.months)
	return out
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Run answers one dashboard request. Everything is recomputed per call.
func (d *Dataset) Run(req Request) Result {
	agg := aggregate.Aggregate(d.series, req.Month)
	return Result{
		Aggregate: agg,
		Display:   aggregate.Display(agg),
		Chart:     query.Query(d.series, req.Month, req.Metrics),
	}
}

// ValidateMonth checks a month filter value.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return nil
}

// Holder publishes the current dataset to concurrent readers.
type Holder struct {
	current atomic.Pointer[Dataset]
}

// NewHolder returns a holder publishing ds.
func NewHolder(ds *Dataset) *Holder {
	h := &Holder{}
	h.Store(ds)
	return h
}

// Load returns the current dataset, or an empty one if none was stored.
func (h *Holder) Load() *Dataset {
	if ds := h.current.Load(); ds != nil {
		return ds
	}
	return NewDataset(models.UnifiedSeries{})
}

// Store replaces the current dataset.
func (h *Holder) Store(ds *Dataset) {
	h.current.Store(ds)
}

// Loader rebuilds datasets from a fixed pair of sources.
type Loader struct {
	EC     feed.Source
	PH     feed.Source
	Parser feed.Parser
}

// Load builds a fresh dataset.
func (l Loader) Load(ctx context.Context) *Dataset {
	return Build(ctx, l.EC, l.PH, l.Parser)
}
