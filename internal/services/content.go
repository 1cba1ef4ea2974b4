package services

import (
	"strings"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"

	"gorm.io/gorm"
)

// ContentService resolves the items a session is built from: participants for
// image-guess games, questions for quizzes.
type ContentService struct {
	db     *gorm.DB
	images *ImageGenService
}

func NewContentService(db *gorm.DB, images *ImageGenService) *ContentService {
	return &ContentService{db: db, images: images}
}

func (s *ContentService) ResolveParticipants(ids []uint) ([]models.Participant, error) {
	var participants []models.Participant
	if len(ids) == 0 {
		return participants, nil
	}
	if err := s.db.Where("id IN ?", ids).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ContentService) ResolveQuestions(ids []uint) ([]models.Question, error) {
	var questions []models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := s.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// EnsureImages fills in missing portraits. Generated URLs are persisted so a
// participant is only rendered once.
func (s *ContentService) EnsureImages(participants []models.Participant) []models.Participant {
	for i := range participants {
		if participants[i].ImageURL != "" {
			continue
		}
		participants[i].ImageURL = s.images.GenerateImage(participants[i].Name)
		s.db.Model(&models.Participant{}).
			Where("id = ?", participants[i].ID).
			Update("image_url", participants[i].ImageURL)
	}
	return participants
}

func (s *ContentService) CreateParticipant(name, imageURL string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("participant name is required")
	}

	participant := models.Participant{Name: name, ImageURL: imageURL}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *ContentService) ListParticipants() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("created_at DESC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ContentService) CreateQuestion(text string, choices []string, correctChoice string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("question text is required")
	}
	if len(choices) != 3 {
		return nil, apperr.Validation("a question needs exactly 3 choices, got %d", len(choices))
	}

	found := false
	for _, c := range choices {
		if c == correctChoice {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.Validation("correct choice must be one of the choices")
	}

	question := models.Question{Text: text, Choices: choices, CorrectChoice: correctChoice}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *ContentService) ListQuestions() ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
