package view

import "tasktracker/internal/models"

// Summary counts tasks per status.
type Summary struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// Summarize counts tasks per status.
func Summarize(tasks []models.Task) Summary {
	var s Summary
	for _, task := range tasks {
		switch task.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusCompleted:
			s.Completed++
		default:
			continue
		}
		s.Total++
	}
	return s
}
