package analytics

import (
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"tutorly/internal/model"
)

// HourlyOutcomes buckets journaled events per UTC hour, keyed by
// "<type>/<outcome>" (e.g. reaction/applied).
func HourlyOutcomes(events []model.Event) map[time.Time]map[string]int {
	buckets := make(map[time.Time]map[string]int)
	for _, e := range events {
		ts := e.Timestamp.UTC()
		key := time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, time.UTC)
		if _, ok := buckets[key]; !ok {
			buckets[key] = make(map[string]int)
		}
		outcome := gjson.Get(e.Payload, "outcome").String()
		if outcome == "" {
			outcome = "unknown"
		}
		buckets[key][e.Type+"/"+outcome]++
	}
	return buckets
}

// SortedBucketKeys returns sorted hour keys.
func SortedBucketKeys(m map[time.Time]map[string]int) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// SortedCounterKeys returns the labels of one bucket in order.
func SortedCounterKeys(b map[string]int) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
