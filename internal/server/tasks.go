package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/models"
	"tasktracker/internal/tasks"
	"tasktracker/internal/view"
)

type taskRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *string               `json:"status"`
	DueDate     models.OptionalString `json:"due_date"`
	DueTime     models.OptionalString `json:"due_time"`
}

func (r taskRequest) fields() tasks.Fields {
	return tasks.Fields{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
	}
}

// handleListTasks returns the caller's tasks, optionally filtered by status.
func (s *Server) handleListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := s.tasks.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": list})
}

// handleTimeline returns the caller's tasks grouped by due date.
func (s *Server) handleTimeline(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := s.tasks.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"groups":  view.Timeline(list, s.now()),
		"summary": view.Summarize(list),
	})
}

// handleSummary returns per-status counts across all of the caller's tasks.
func (s *Server) handleSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := s.tasks.List(c.Request.Context(), userID, "")
	if err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"summary": view.Summarize(list)})
}

// handleCreateTask creates a task owned by the caller.
func (s *Server) handleCreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), userID, req.fields())
	if err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask applies a partial update to one of the caller's tasks.
func (s *Server) handleUpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), userID, c.Param("id"), req.fields())
	if err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes one of the caller's tasks permanently.
func (s *Server) handleDeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := s.tasks.Delete(c.Request.Context(), userID, id); err != nil {
		s.respondTaskError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted", "id": id})
}
