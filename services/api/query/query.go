package query

import (
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// Query builds the long-form chart series for the readings in the given
// month (nil for all). Every reading contributes an EC and a PH point;
// metrics outside enabled are kept with Visible=false and get no extrema.
func Query(series models.UnifiedSeries, month *int, enabled models.MetricSet) models.ChartSeries {
	readings := series.FilterMonth(month)
	if len(readings) == 0 {
		return models.ChartSeries{Points: []models.ChartPoint{}, Annotations: []models.Annotation{}}
	}

	points := make([]models.ChartPoint, 0, 2*len(readings))
	for _, r := range readings {
		points = append(points,
			models.ChartPoint{Timestamp: r.Timestamp, Metric: models.MetricEC, Value: r.EC, Visible: enabled.Has(models.MetricEC)},
			models.ChartPoint{Timestamp: r.Timestamp, Metric: models.MetricPH, Value: r.PH, Visible: enabled.Has(models.MetricPH)},
		)
	}

	annotations := make([]models.Annotation, 0, 2*len(models.AllMetrics))
	for _, m := range enabled.List() {
		annotations = append(annotations, Extrema(points, m)...)
	}

	return models.ChartSeries{Points: points, Annotations: annotations}
}

// Extrema returns the max and min annotations for metric m. Ties keep the
// earliest point. Points without a value are ignored; if none has a value the
// result is empty.
func Extrema(points []models.ChartPoint, m models.Metric) []models.Annotation {
	var hi, lo *models.ChartPoint
	for i := range points {
		p := &points[i]
		if p.Metric != m || p.Value == nil {
			continue
		}
		if hi == nil || *p.Value > *hi.Value {
			hi = p
		}
		if lo == nil || *p.Value < *lo.Value {
			lo = p
		}
	}
	if hi == nil {
		return nil
	}
	return []models.Annotation{
		{Metric: m, Kind: models.AnnotationMax, Timestamp: hi.Timestamp, Value: *hi.Value},
		{Metric: m, Kind: models.AnnotationMin, Timestamp: lo.Timestamp, Value: *lo.Value},
	}
}
