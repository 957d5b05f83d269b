package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardstack/internal/models"
)

type snoozeRequest struct {
	Hours *float64 `json:"hours"`
}

type indexRequest struct {
	Index *int `json:"index"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

// handleState returns the full deck snapshot.
func (s *Server) handleState(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"deck": s.deck.State()})
}

// handleComplete completes the current card.
func (s *Server) handleComplete(c *gin.Context) {
	s.respondDeck(c, s.deck.CompleteTask(), nil)
}

// handleDismiss sends the current card to the bottom of the deck.
func (s *Server) handleDismiss(c *gin.Context) {
	s.respondDeck(c, s.deck.DismissTask(), nil)
}

// handleSnooze hides the current card for the requested number of hours.
func (s *Server) handleSnooze(c *gin.Context) {
	var req snoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Hours == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("hours is required"))
		return
	}
	s.respondDeck(c, s.deck.SnoozeTask(*req.Hours), nil)
}

func (s *Server) handleShuffle(c *gin.Context) {
	s.respondDeck(c, s.deck.ShuffleDeck(), nil)
}

func (s *Server) handleNext(c *gin.Context) {
	s.respondDeck(c, s.deck.NavigateNext(), nil)
}

func (s *Server) handlePrevious(c *gin.Context) {
	s.respondDeck(c, s.deck.NavigatePrevious(), nil)
}

// handleSetIndex jumps to a position in the deck.
func (s *Server) handleSetIndex(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Index == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("index is required"))
		return
	}
	s.respondDeck(c, s.deck.SetCurrentIndex(*req.Index), nil)
}

// handleSelectCategory filters the deck; an empty category clears the filter.
func (s *Server) handleSelectCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	category := models.Category(req.Category)
	if category != "" {
		if _, ok := models.ValidCategories[category]; !ok {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown category %q", req.Category))
			return
		}
	}
	s.respondDeck(c, s.deck.SelectCategory(category), nil)
}
