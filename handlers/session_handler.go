package handlers

import (
	"net/http"

	"studyquiz/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
	hub            *services.Hub
}

func NewSessionHandler(sessionService *services.SessionService, hub *services.Hub) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		hub:            hub,
	}
}

type submitAnswerRequest struct {
	OptionIndex *int `json:"option_index" binding:"required"`
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.sessionService.StartSession(userID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.sessionService.GetSession(c.Param("token"), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionService.SubmitAnswer(c.Param("token"), userID.(uint), *req.OptionIndex, h.hub)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) Advance(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, summary, err := h.sessionService.Advance(c.Param("token"), userID.(uint), h.hub)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if summary != nil {
		c.JSON(http.StatusOK, gin.H{"session": view, "summary": summary})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *SessionHandler) Abandon(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.sessionService.Abandon(c.Param("token"), userID.(uint), h.hub); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session abandoned"})
}
