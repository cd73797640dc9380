package analytics

import (
	"math"
	"math/rand/v2"
	"time"
)

const dateLayout = "2006-01-02"

// SyntheticSeries fabricates daily series from a total. Nothing it returns is measured;
// responses built from it carry Series = SeriesSynthetic.
type SyntheticSeries struct {
	rng *rand.Rand
	end time.Time
}

// NewSyntheticSeries returns a generator whose output is fully determined by seed and end.
func NewSyntheticSeries(seed uint64, end time.Time) *SyntheticSeries {
	return &SyntheticSeries{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		end: end,
	}
}

// Uniform spreads total evenly over days and scales each day by a factor in [0.5, 2.0].
func (s *SyntheticSeries) Uniform(total int64, days int) []DayPoint {
	points := make([]DayPoint, 0, days)
	for _, day := range dayRange(s.end, days) {
		factor := 0.5 + s.rng.Float64()*1.5
		points = append(points, DayPoint{
			Date:  day.Format(dateLayout),
			Value: int64(math.Round(float64(total) * factor / float64(days))),
		})
	}
	return points
}

// Weekly weights weekdays at 1.2 and weekends at 0.8, then jitters by a factor in [0.9, 1.3].
func (s *SyntheticSeries) Weekly(total int64, days int) []DayPoint {
	points := make([]DayPoint, 0, days)
	base := float64(total) / float64(max(days, 1))
	for _, day := range dayRange(s.end, days) {
		weight := 1.2
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weight = 0.8
		}
		factor := 0.9 + s.rng.Float64()*0.4
		points = append(points, DayPoint{
			Date:  day.Format(dateLayout),
			Value: int64(math.Round(base * weight * factor)),
		})
	}
	return points
}

// dayRange returns the days calendar days ending at end, oldest first.
func dayRange(end time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	y, m, d := end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, end.Location())
	out := make([]time.Time, days)
	for i := 0; i < days; i++ {
		out[i] = last.AddDate(0, 0, i-days+1)
	}
	return out
}

// fillSeries aligns sparse values onto the full day range, zero-filling gaps.
func fillSeries(values map[string]int64, end time.Time, days int) []DayPoint {
	points := make([]DayPoint, 0, days)
	for _, day := range dayRange(end, days) {
		key := day.Format(dateLayout)
		points = append(points, DayPoint{Date: key, Value: values[key]})
	}
	return points
}
