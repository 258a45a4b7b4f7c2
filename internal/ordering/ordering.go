// Package ordering keeps per-column order values dense.
//
// Within every column the orders of its tasks must be exactly 1..N. The
// functions here mutate the given slice in place and never reorder the
// slice itself; display order is derived from (status, order).
package ordering

import (
	"sort"

	"fluxline/internal/models"
)

// Normalize reassigns order 1..N in every column. Tasks are ranked by their
// current order; ties keep their position in the slice, so corrupted or
// duplicated orders converge deterministically. Running it twice is a no-op.
func Normalize(tasks []models.Task) {
	for _, status := range models.Statuses {
		NormalizeColumn(tasks, status)
	}
}

// NormalizeColumn is Normalize restricted to one column.
func NormalizeColumn(tasks []models.Task, status models.Status) {
	idx := columnIndexes(tasks, status)

	sort.SliceStable(idx, func(i, j int) bool {
		return tasks[idx[i]].Order < tasks[idx[j]].Order
	})

	for rank, i := range idx {
		tasks[i].Order = rank + 1
	}
}

// NextOrder returns the order that appends a task to the end of a column.
func NextOrder(tasks []models.Task, status models.Status) int {
	max := 0
	for _, t := range tasks {
		if t.Status == status && t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

// ApplyColumnSequences applies the final card sequence of each column as
// reported by a drag gesture. Each listed task moves into that column at
// its 1-based position. Unknown ids are ignored and an id listed in more
// than one column keeps the first column in board order. Tasks a column
// did not list stay in it, after the listed ones, in their old relative
// order. The result is normalized.
func ApplyColumnSequences(tasks []models.Task, columns map[models.Status][]string) {
	byID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = i
	}

	placed := make(map[int]bool, len(tasks))
	listed := make(map[models.Status]int, len(columns))

	for _, status := range models.Statuses {
		ids, ok := columns[status]
		if !ok {
			continue
		}
		pos := 0
		for _, id := range ids {
			i, found := byID[id]
			if !found || placed[i] {
				continue
			}
			pos++
			placed[i] = true
			tasks[i].Status = status
			tasks[i].Order = pos
		}
		listed[status] = pos
	}

	for i := range tasks {
		if placed[i] {
			continue
		}
		if n, ok := listed[tasks[i].Status]; ok {
			tasks[i].Order += n
			if tasks[i].Order <= n {
				tasks[i].Order = n + 1
			}
		}
	}

	Normalize(tasks)
}

// Column returns copies of the tasks in one column sorted by order.
func Column(tasks []models.Task, status models.Status) []models.Task {
	idx := columnIndexes(tasks, status)
	sort.SliceStable(idx, func(i, j int) bool {
		return tasks[idx[i]].Order < tasks[idx[j]].Order
	})

	out := make([]models.Task, 0, len(idx))
	for _, i := range idx {
		out = append(out, tasks[i].Clone())
	}
	return out
}

// Check reports whether every column holds exactly the orders 1..N.
func Check(tasks []models.Task) bool {
	for _, status := range models.Statuses {
		idx := columnIndexes(tasks, status)
		seen := make(map[int]bool, len(idx))
		for _, i := range idx {
			o := tasks[i].Order
			if o < 1 || o > len(idx) || seen[o] {
				return false
			}
			seen[o] = true
		}
	}
	return true
}

func columnIndexes(tasks []models.Task, status models.Status) []int {
	idx := make([]int, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Status == status {
			idx = append(idx, i)
		}
	}
	return idx
}
