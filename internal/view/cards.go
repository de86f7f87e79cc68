package view

import (
	"time"

	"tasktracker/internal/models"
)

// Card is a task annotated for display.
type Card struct {
	models.Task
	Urgency  Urgency `json:"urgency"`
	DueLabel *string `json:"due_label"`
}

// Cards annotates tasks with their urgency and due label, keeping order.
func Cards(tasks []models.Task, now time.Time) []Card {
	cards := make([]Card, 0, len(tasks))
	for _, task := range tasks {
		card := Card{Task: task, Urgency: Classify(task, now)}
		if label, ok := DueLabel(task); ok {
			card.DueLabel = &label
		}
		cards = append(cards, card)
	}
	return cards
}

// TimelineGroup is a timeline bucket with annotated tasks.
type TimelineGroup struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Tasks []Card `json:"tasks"`
}

// Timeline groups tasks by due date and annotates every member.
func Timeline(tasks []models.Task, now time.Time) []TimelineGroup {
	buckets := GroupTimeline(tasks)
	groups := make([]TimelineGroup, 0, len(buckets))
	for _, b := range buckets {
		groups = append(groups, TimelineGroup{Key: b.Key, Label: b.Label, Tasks: Cards(b.Tasks, now)})
	}
	return groups
}
