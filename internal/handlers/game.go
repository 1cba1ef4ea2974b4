package handlers

import (
	"net/http"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService    *services.GameService
	sessionService *services.SessionService
	statsService   *services.StatisticsService
}

func NewGameHandler(gameService *services.GameService, sessionService *services.SessionService, statsService *services.StatisticsService) *GameHandler {
	return &GameHandler{gameService: gameService, sessionService: sessionService, statsService: statsService}
}

type InitializeRequest struct {
	ItemIDs []uint `json:"item_ids" binding:"required"`
}

// sessionOfType loads the session and checks it belongs to the game type the
// route is mounted under, so /quiz routes cannot act on image-guess sessions.
func (h *GameHandler) sessionOfType(c *gin.Context, sessionID uint) (*models.Session, error) {
	session, err := h.sessionService.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if gameType := c.GetString("game_type"); session.GameType != gameType {
		return nil, apperr.NotFound("no %s session %d", gameType, sessionID)
	}
	return session, nil
}

// Initialize godoc
// @Summary      Build rounds from selected content items
// @Description  Resolves the selected participants or questions and creates one round per item in shuffled order.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body InitializeRequest true "Content item ids"
// @Success      200 {object} models.Session
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/{type}/session/{id}/initialize [post]
func (h *GameHandler) Initialize(c *gin.Context) {
	sessionID, ok := idParam(c)
	if !ok {
		return
	}

	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.sessionOfType(c, sessionID); err != nil {
		respondError(c, err)
		return
	}

	session, err := h.gameService.Initialize(sessionID, req.ItemIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Start godoc
// @Summary      Start the session
// @Description  Flips a pending session to in_progress and opens round 0.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionState
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/{type}/session/{id}/start [post]
func (h *GameHandler) Start(c *gin.Context) {
	sessionID, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.sessionOfType(c, sessionID); err != nil {
		respondError(c, err)
		return
	}

	state, err := h.gameService.Start(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Next godoc
// @Summary      Advance to the next round
// @Description  Closes the current round, then opens the next one or completes the session.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionState
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/{type}/session/{id}/next [post]
func (h *GameHandler) Next(c *gin.Context) {
	sessionID, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.sessionOfType(c, sessionID); err != nil {
		respondError(c, err)
		return
	}

	state, err := h.gameService.Advance(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Current godoc
// @Summary      Get the authoritative session state
// @Tags         game
// @Produce      json
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/{type}/session/{id}/current [get]
func (h *GameHandler) Current(c *gin.Context) {
	sessionID, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.sessionOfType(c, sessionID); err != nil {
		respondError(c, err)
		return
	}

	state, err := h.gameService.State(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Statistics godoc
// @Summary      Get aggregate session statistics
// @Tags         game
// @Produce      json
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionStatistics
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/{type}/session/{id}/statistics [get]
func (h *GameHandler) Statistics(c *gin.Context) {
	sessionID, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.sessionOfType(c, sessionID); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.statsService.Aggregate(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Active godoc
// @Summary      Get the featured session for this game type
// @Description  Display and player clients attach to this session by default.
// @Tags         game
// @Produce      json
// @Success      200 {object} services.SessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/{type}/session/active [get]
func (h *GameHandler) Active(c *gin.Context) {
	session, err := h.sessionService.Active(c.GetString("game_type"))
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := h.gameService.State(session.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
