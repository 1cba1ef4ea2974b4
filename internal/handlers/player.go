package handlers

import (
	"net/http"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

type RegisterPlayerRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	TeamID      *uint  `json:"team_id,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
	SessionID   *uint  `json:"session_id,omitempty"`
}

type CreateTeamRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color,omitempty"`
}

// RegisterPlayer godoc
// @Summary      Register a player identity
// @Description  Returns the existing player when the device token is already known, so reloads keep the same identity.
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        request body RegisterPlayerRequest true "Player data"
// @Success      200 {object} services.RegisterResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/players [post]
func (h *PlayerHandler) RegisterPlayer(c *gin.Context) {
	var req RegisterPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.playerService.Register(req.Name, req.TeamID, req.DeviceToken, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPlayer godoc
// @Summary      Look a player up by device token
// @Tags         players
// @Produce      json
// @Param        token path string true "Device token"
// @Success      200 {object} models.Player
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/players/{token} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	player, err := h.playerService.GetByToken(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// CreateTeam godoc
// @Summary      Create a team
// @Tags         players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTeamRequest true "Team data"
// @Success      201 {object} models.Team
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/teams [post]
func (h *PlayerHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.playerService.CreateTeam(req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// ListTeams godoc
// @Summary      List teams
// @Tags         players
// @Produce      json
// @Success      200 {array} models.Team
// @Router       /api/v1/teams [get]
func (h *PlayerHandler) ListTeams(c *gin.Context) {
	teams, err := h.playerService.ListTeams()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}
