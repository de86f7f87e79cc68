package view

import (
	"sort"
	"time"

	"tasktracker/internal/models"
)

// NoDateKey is the bucket key for tasks without a due date.
const NoDateKey = "no-date"

// Bucket holds the tasks sharing one due date.
type Bucket struct {
	Key   string        `json:"key"`
	Label string        `json:"label"`
	Tasks []models.Task `json:"tasks"`
}

// GroupTimeline partitions tasks by due date. Buckets are ordered by date
// with NoDateKey last; tasks keep their input order within a bucket.
func GroupTimeline(tasks []models.Task) []Bucket {
	index := map[string]int{}
	var buckets []Bucket
	for _, task := range tasks {
		key := dateKey(task)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Label: headerLabel(key)})
		}
		buckets[i].Tasks = append(buckets[i].Tasks, task)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i].Key, buckets[j].Key
		if a == NoDateKey {
			return false
		}
		if b == NoDateKey {
			return true
		}
		return a < b
	})
	return buckets
}

func dateKey(task models.Task) string {
	date, ok := parseDate(task.DueDate, time.UTC)
	if !ok {
		return NoDateKey
	}
	return date.Format(models.DateLayout)
}
