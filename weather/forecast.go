package weather

import (
	"math"
	"time"

	"github.com/samasastudio/brutalcast/internal/models"
)

// AggregateDaily reduces 3-hour forecast samples to at most five daily
// summaries using the process-local timezone. See AggregateDailyIn.
func AggregateDaily(samples []models.ForecastSample) []models.DailyForecast {
	return AggregateDailyIn(samples, time.Local)
}

// AggregateDailyIn groups samples into calendar days in the given timezone
// and reduces each day to one summary. Grouping and the day-name label use
// the same timezone: a sample near midnight must land in the bucket whose
// name it carries, or two buckets end up with the same label.
//
// The output is chronologically ascending, at most five entries, with
// pairwise-distinct day labels. Empty input yields empty output.
func AggregateDailyIn(samples []models.ForecastSample, loc *time.Location) []models.DailyForecast {
	if len(samples) == 0 {
		return nil
	}

	var dates []string
	buckets := make(map[string][]models.ForecastSample)
	for _, s := range samples {
		key := time.Unix(s.Timestamp, 0).In(loc).Format("2006-01-02")
		if _, seen := buckets[key]; !seen {
			dates = append(dates, key)
		}
		buckets[key] = append(buckets[key], s)
	}
	if len(dates) > 5 {
		dates = dates[:5]
	}

	daily := make([]models.DailyForecast, 0, len(dates))
	seenDays := make(map[string]bool)
	for _, date := range dates {
		bucket := buckets[date]

		dayName := time.Unix(bucket[0].Timestamp, 0).In(loc).Format("Mon")
		if seenDays[dayName] {
			// Timezone grouping should make this impossible; skip the whole
			// date rather than emit a duplicate label.
			continue
		}
		seenDays[dayName] = true

		rep := representativeSample(bucket)

		var humiditySum float64
		maxPop := 0.0
		for _, s := range bucket {
			humiditySum += float64(s.Humidity)
			if s.Pop > maxPop {
				maxPop = s.Pop
			}
		}

		daily = append(daily, models.DailyForecast{
			Day:          dayName,
			Temp:         int(math.Round(rep.Temp)),
			Humidity:     int(math.Round(humiditySum / float64(len(bucket)))),
			ChanceOfRain: int(math.Round(maxPop * 100)),
		})
	}
	return daily
}

// representativeSample picks the day's representative temperature reading:
// the first sample at or after noon UTC, else the approximate middle sample.
func representativeSample(bucket []models.ForecastSample) models.ForecastSample {
	for _, s := range bucket {
		if time.Unix(s.Timestamp, 0).UTC().Hour() >= 12 {
			return s
		}
	}
	return bucket[len(bucket)/2]
}
