package model

import "math"

// ProjectStats summarizes the progress of a project's tasks.
type ProjectStats struct {
	Total     int
	Completed int
}

// Stats counts the tasks of a project and how many of them are completed.
func Stats(tasks []Task) ProjectStats {
	stats := ProjectStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			stats.Completed++
		}
	}
	return stats
}

// CompletionRate returns the completed share as a whole percentage.
// A project without tasks has a rate of 0.
func (s ProjectStats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// ByStatus groups tasks into their board columns, preserving order.
func ByStatus(tasks []Task) map[TaskStatus][]Task {
	columns := make(map[TaskStatus][]Task, len(Statuses))
	for _, t := range tasks {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns
}
