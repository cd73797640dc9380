package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesEnd = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC) // a Sunday

func TestSyntheticSeriesLengthMatchesRange(t *testing.T) {
	for _, r := range Ranges {
		gen := NewSyntheticSeries(42, seriesEnd)
		assert.Len(t, gen.Uniform(100, r.Days), r.Days, r.Key)
		assert.Len(t, gen.Weekly(100, r.Days), r.Days, r.Key)
	}
}

func TestSyntheticSeriesDatesEndToday(t *testing.T) {
	points := NewSyntheticSeries(1, seriesEnd).Uniform(70, 7)
	require.Len(t, points, 7)
	assert.Equal(t, "2026-10-12", points[0].Date)
	assert.Equal(t, "2026-10-18", points[6].Date)
}

func TestSyntheticSeriesIsSeeded(t *testing.T) {
	a := NewSyntheticSeries(7, seriesEnd).Uniform(1000, 30)
	b := NewSyntheticSeries(7, seriesEnd).Uniform(1000, 30)
	c := NewSyntheticSeries(8, seriesEnd).Uniform(1000, 30)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestUniformFactorBounds(t *testing.T) {
	const total, days = 7000, 7
	for _, p := range NewSyntheticSeries(3, seriesEnd).Uniform(total, days) {
		assert.GreaterOrEqual(t, p.Value, int64(math.Round(total*0.5/days)))
		assert.LessOrEqual(t, p.Value, int64(math.Round(total*2.0/days)))
	}
}

func TestWeeklyWeightsWeekends(t *testing.T) {
	const total, days = 7000, 7
	for _, p := range NewSyntheticSeries(5, seriesEnd).Weekly(total, days) {
		day, err := time.Parse(dateLayout, p.Date)
		require.NoError(t, err)
		base := float64(total) / days
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			assert.GreaterOrEqual(t, float64(p.Value), math.Floor(base*0.8*0.9))
			assert.LessOrEqual(t, float64(p.Value), math.Ceil(base*0.8*1.3))
		} else {
			assert.GreaterOrEqual(t, float64(p.Value), math.Floor(base*1.2*0.9))
			assert.LessOrEqual(t, float64(p.Value), math.Ceil(base*1.2*1.3))
		}
	}
}

func TestFillSeriesZeroFillsGaps(t *testing.T) {
	points := fillSeries(map[string]int64{"2026-10-17": 4}, seriesEnd, 3)
	assert.Equal(t, []DayPoint{
		{Date: "2026-10-16", Value: 0},
		{Date: "2026-10-17", Value: 4},
		{Date: "2026-10-18", Value: 0},
	}, points)
}
