// Package stats aggregates a user's tasks into status, priority and
// creation-day counts. Every function is pure over the given task slice.
package stats

import (
	"sort"
	"time"

	"github.com/adanyl0v/taskd/internal/models"
)

// WindowDays is the number of calendar days covered by NewTasksLastWeek.
const WindowDays = 7

type Totals struct {
	CompletedCount int64
	TotalCount     int64
}

type StatusCount struct {
	Status models.Status
	Count  int64
}

type PriorityCount struct {
	Priority int
	Count    int64
}

type DayCount struct {
	// Day is the short weekday label, e.g. "Mon".
	Day   string
	Count int64
}

func ComputeTotals(tasks []*models.Task) Totals {
	var totals Totals
	for _, t := range tasks {
		totals.TotalCount++
		if t.Status == models.StatusCompleted {
			totals.CompletedCount++
		}
	}
	return totals
}

// ByStatus counts tasks per status present, in status declaration order.
func ByStatus(tasks []*models.Task) []StatusCount {
	counts := make(map[models.Status]int64)
	for _, t := range tasks {
		counts[t.Status]++
	}

	result := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		ri, rj := result[i].Status.Rank(), result[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return result[i].Status < result[j].Status
	})
	return result
}

// ByPriority counts tasks per distinct priority, ascending.
func ByPriority(tasks []*models.Task) []PriorityCount {
	counts := make(map[int]int64)
	for _, t := range tasks {
		counts[t.Priority]++
	}

	result := make([]PriorityCount, 0, len(counts))
	for priority, count := range counts {
		result = append(result, PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result
}

// NewTasksLastWeek counts tasks created in [now-6 days, now], bucketed by
// weekday in now's location. Buckets are ordered by their earliest creation
// time. Days without tasks are omitted.
func NewTasksLastWeek(tasks []*models.Task, now time.Time) []DayCount {
	from := now.AddDate(0, 0, -(WindowDays - 1))

	type bucket struct {
		day      string
		count    int64
		earliest time.Time
	}
	buckets := make(map[string]*bucket)
	for _, t := range tasks {
		created := t.CreatedAt.In(now.Location())
		if created.Before(from) || created.After(now) {
			continue
		}

		day := created.Format("Mon")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{day: day, earliest: created}
			buckets[day] = b
		}
		b.count++
		if created.Before(b.earliest) {
			b.earliest = created
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].earliest.Before(ordered[j].earliest)
	})

	result := make([]DayCount, 0, len(ordered))
	for _, b := range ordered {
		result = append(result, DayCount{Day: b.day, Count: b.count})
	}
	return result
}
