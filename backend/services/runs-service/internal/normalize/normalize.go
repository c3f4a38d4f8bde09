// Package normalize turns raw run records into chart-ready series: rows from
// before the sensors started reporting are dropped, every chart group gets its
// own time origin, and values are converted to numbers or gaps.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/models"
)

// DefaultSentinel is the timestamp a sensor reports before its first sample.
const DefaultSentinel = "00:00:00.000"

// Point is one chart sample. T is seconds since the group baseline; a nil Y
// is drawn as a gap.
type Point struct {
	T float64  `json:"t"`
	Y *float64 `json:"y"`
}

// FilterSentinel drops every record that holds sentinel in any of the watched
// columns. Absent columns never match. The input slice is not modified.
func FilterSentinel(records []models.Record, watched []string, sentinel string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if !hasSentinel(rec, watched, sentinel) {
			out = append(out, rec)
		}
	}
	return out
}

func hasSentinel(rec models.Record, watched []string, sentinel string) bool {
	for _, col := range watched {
		if v, ok := rec[col]; ok && v == sentinel {
			return true
		}
	}
	return false
}

// MinTimestamp returns the earliest parseable time across all series of a
// group. It reports false when no record carries a usable time.
func MinTimestamp(records []models.Record, series []catalog.Series) (TimeOfDay, bool) {
	var (
		earliest TimeOfDay
		found    bool
	)
	for _, rec := range records {
		for _, s := range series {
			ts, ok := ParseTime(rec[s.TimeColumn])
			if !ok {
				continue
			}
			if !found || ts < earliest {
				earliest, found = ts, true
			}
		}
	}
	return earliest, found
}

// NormalizeSeries emits one point per record with a parseable time column.
// Values that are missing or not finite numbers become gaps (nil), never zero.
// Input order is kept; nothing is sorted.
func NormalizeSeries(records []models.Record, s catalog.Series, baseline TimeOfDay) []Point {
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		ts, ok := ParseTime(rec[s.TimeColumn])
		if !ok {
			continue
		}
		points = append(points, Point{T: ts.Sub(baseline), Y: parseValue(rec[s.ValueColumn])})
	}
	return points
}

// AggregateSum sums columns per record using timeColumn as the shared clock.
//
// Unlike NormalizeSeries, a missing or non-numeric column counts as 0 so that
// one load cell dropping out does not blank the whole total.
func AggregateSum(records []models.Record, columns []string, timeColumn string, baseline TimeOfDay) []Point {
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		ts, ok := ParseTime(rec[timeColumn])
		if !ok {
			continue
		}
		var sum float64
		for _, col := range columns {
			if v := parseValue(rec[col]); v != nil {
				sum += *v
			}
		}
		points = append(points, Point{T: ts.Sub(baseline), Y: &sum})
	}
	return points
}

func parseValue(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
