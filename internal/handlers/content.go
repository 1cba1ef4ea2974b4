package handlers

import (
	"net/http"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

type CreateParticipantRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	ImageURL string `json:"image_url,omitempty"`
}

type CreateQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Choices       []string `json:"choices" binding:"required,len=3"`
	CorrectChoice string   `json:"correct_choice" binding:"required"`
}

// CreateParticipant godoc
// @Summary      Add a participant to guess
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateParticipantRequest true "Participant data"
// @Success      201 {object} models.Participant
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/participants [post]
func (h *ContentHandler) CreateParticipant(c *gin.Context) {
	var req CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.contentService.CreateParticipant(req.Name, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Participant
// @Router       /api/v1/participants [get]
func (h *ContentHandler) ListParticipants(c *gin.Context) {
	participants, err := h.contentService.ListParticipants()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, participants)
}

// CreateQuestion godoc
// @Summary      Add a quiz question
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} models.Question
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/questions [post]
func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.contentService.CreateQuestion(req.Text, req.Choices, req.CorrectChoice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary      List quiz questions
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Question
// @Router       /api/v1/questions [get]
func (h *ContentHandler) ListQuestions(c *gin.Context) {
	questions, err := h.contentService.ListQuestions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}
