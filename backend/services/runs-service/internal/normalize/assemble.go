package normalize

import (
	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/models"
)

// Dataset is one labelled line of a chart group.
type Dataset struct {
	Label  string        `json:"label"`
	Points []Point       `json:"points"`
	Style  catalog.Style `json:"style,omitempty"`
}

// GroupResult is a chart group ready to draw.
type GroupResult struct {
	CanvasID   string    `json:"canvas_id"`
	YAxisLabel string    `json:"y_axis_label"`
	Datasets   []Dataset `json:"datasets"`
}

// RunCharts is everything the dashboard draws for one run.
type RunCharts struct {
	Run         string        `json:"run"`
	Rows        int           `json:"rows"`
	Groups      []GroupResult `json:"groups"`
	TotalThrust *GroupResult  `json:"total_thrust,omitempty"`
}

// Assemble normalizes every group against its own baseline. Two groups that
// share a sensor generally place the same sample at different times.
func Assemble(records []models.Record, groups []catalog.Group) []GroupResult {
	results := make([]GroupResult, 0, len(groups))
	for _, g := range groups {
		baseline, ok := MinTimestamp(records, g.Series)
		datasets := make([]Dataset, 0, len(g.Series))
		for _, s := range g.Series {
			points := []Point{}
			if ok {
				points = NormalizeSeries(records, s, baseline)
			}
			datasets = append(datasets, Dataset{Label: s.Label, Points: points, Style: s.Style})
		}
		results = append(results, GroupResult{
			CanvasID:   g.CanvasID,
			YAxisLabel: g.YAxisLabel,
			Datasets:   datasets,
		})
	}
	return results
}

// AssembleAggregate draws an aggregate as a single-dataset group whose baseline
// is the earliest reading of its clock column.
func AssembleAggregate(records []models.Record, agg catalog.Aggregate) GroupResult {
	clock := []catalog.Series{{TimeColumn: agg.TimeColumn}}
	points := []Point{}
	if baseline, ok := MinTimestamp(records, clock); ok {
		points = AggregateSum(records, agg.ValueColumns, agg.TimeColumn, baseline)
	}
	return GroupResult{
		CanvasID:   agg.CanvasID,
		YAxisLabel: agg.YAxisLabel,
		Datasets:   []Dataset{{Label: agg.Label, Points: points, Style: agg.Style}},
	}
}

// BuildRunCharts drops sentinel rows across every clock column of the catalog,
// then assembles the groups and the thrust aggregate.
func BuildRunCharts(run string, records []models.Record, c *catalog.Catalog, sentinel string) RunCharts {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	working := FilterSentinel(records, c.TimeColumns(), sentinel)

	charts := RunCharts{
		Run:    run,
		Rows:   len(working),
		Groups: Assemble(working, c.Groups),
	}
	if c.Thrust != nil {
		thrust := AssembleAggregate(working, *c.Thrust)
		charts.TotalThrust = &thrust
	}
	return charts
}
