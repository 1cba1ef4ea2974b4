package handlers

import (
	"net/http"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	scoringService *services.ScoringService
	gameService    *services.GameService
}

func NewRoundHandler(scoringService *services.ScoringService, gameService *services.GameService) *RoundHandler {
	return &RoundHandler{scoringService: scoringService, gameService: gameService}
}

type SubmitAnswerRequest struct {
	PlayerID       uint   `json:"player_id" binding:"required"`
	GuessedValue   string `json:"guessed_value" binding:"required"`
	ResponseTimeMs *int   `json:"response_time_ms,omitempty"`
}

// Answer godoc
// @Summary      Submit a guess for a round
// @Description  One answer per player per round; the round must be the session's current round.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        id path int true "Round ID"
// @Param        request body SubmitAnswerRequest true "Guess"
// @Success      201 {object} models.Answer
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/{type}/round/{id}/answer [post]
func (h *RoundHandler) Answer(c *gin.Context) {
	roundID, ok := idParam(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answer, err := h.scoringService.SubmitAnswer(roundID, req.PlayerID, req.GuessedValue, req.ResponseTimeMs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// Reveal godoc
// @Summary      Reveal the round's correct answer and all submitted answers
// @Description  Read-only; the round stays open until the host advances. Pushes reveal_answers to connected clients.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Round ID"
// @Success      200 {object} services.RevealResult
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/{type}/round/{id}/reveal [get]
func (h *RoundHandler) Reveal(c *gin.Context) {
	roundID, ok := idParam(c)
	if !ok {
		return
	}

	result, err := h.gameService.Reveal(roundID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
