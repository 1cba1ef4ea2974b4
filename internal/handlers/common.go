package handlers

import (
	"net/http"
	"strconv"

	"party-game-backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps the app error taxonomy onto HTTP status codes. Plain
// errors end up as 500s.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindInvalidState:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindDuplicate:
		status = http.StatusConflict
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GameTypeContext pins the game type a route group is mounted under, so the
// same handlers serve the mirrored /image_guess and /quiz prefixes.
func GameTypeContext(gameType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("game_type", gameType)
		c.Next()
	}
}
