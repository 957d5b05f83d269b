package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cardstack/internal/models"
)

type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
}

// bindTask decodes a task payload and rejects blank titles.
func (s *Server) bindTask(c *gin.Context) (models.TaskInput, bool) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return models.TaskInput{}, false
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return models.TaskInput{}, false
	}

	return models.TaskInput{
		Title:       strings.TrimSpace(*req.Title),
		Description: strings.TrimSpace(getString(req.Description)),
		Priority:    models.ParsePriority(getString(req.Priority)),
		Category:    models.ParseCategory(getString(req.Category)),
		DueDate:     req.DueDate,
	}, true
}

// handleAddTask appends a new task to the deck.
func (s *Server) handleAddTask(c *gin.Context) {
	in, ok := s.bindTask(c)
	if !ok {
		return
	}
	task, applied := s.deck.AddTask(in)
	if !applied {
		s.respondDeck(c, false, nil)
		return
	}
	body := gin.H{"applied": true, "task": task, "deck": s.deck.State()}
	respondSuccess(c, http.StatusCreated, body)
}

// handleUnsnooze returns a snoozed task to the deck.
func (s *Server) handleUnsnooze(c *gin.Context) {
	s.respondDeck(c, s.deck.UnsnoozeTask(c.Param("id")), nil)
}

// handleListSubtasks returns the parent's open subtasks.
func (s *Server) handleListSubtasks(c *gin.Context) {
	subtasks := s.deck.ActiveSubtasks(c.Param("id"))
	if subtasks == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"subtasks": subtasks})
}

// handleAddSubtask attaches a new subtask to a parent task.
func (s *Server) handleAddSubtask(c *gin.Context) {
	in, ok := s.bindTask(c)
	if !ok {
		return
	}
	sub, applied := s.deck.AddSubtask(c.Param("id"), in)
	if !applied {
		s.respondDeck(c, false, nil)
		return
	}
	body := gin.H{"applied": true, "subtask": sub, "deck": s.deck.State()}
	respondSuccess(c, http.StatusCreated, body)
}

func (s *Server) handleCompleteSubtask(c *gin.Context) {
	s.respondDeck(c, s.deck.CompleteSubtask(c.Param("id"), c.Param("subId")), nil)
}

func (s *Server) handleCancelSubtask(c *gin.Context) {
	s.respondDeck(c, s.deck.CancelSubtask(c.Param("id"), c.Param("subId")), nil)
}

// handleUpgradeSubtask promotes a subtask to a top-level task.
func (s *Server) handleUpgradeSubtask(c *gin.Context) {
	task, applied := s.deck.UpgradeSubtaskToTask(c.Param("id"), c.Param("subId"))
	var extra gin.H
	if applied {
		extra = gin.H{"task": task}
	}
	s.respondDeck(c, applied, extra)
}

// handleListCompleted returns completed tasks, newest first.
func (s *Server) handleListCompleted(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"completedTasks": s.deck.State().CompletedTasks})
}

// handleReturnToStack moves a completed task back into the deck.
func (s *Server) handleReturnToStack(c *gin.Context) {
	s.respondDeck(c, s.deck.ReturnToStack(c.Param("id")), nil)
}

// handleDeleteCompleted removes a completed task permanently.
func (s *Server) handleDeleteCompleted(c *gin.Context) {
	s.respondDeck(c, s.deck.DeleteCompletedTask(c.Param("id")), nil)
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
