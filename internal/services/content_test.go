package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
)

func TestCreateQuestionValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		text    string
		choices []string
		correct string
		wantErr bool
	}{
		{"valid", "Capital of France?", []string{"Paris", "London", "Rome"}, "Paris", false},
		{"blank text", "  ", []string{"Paris", "London", "Rome"}, "Paris", true},
		{"too few choices", "Q?", []string{"Paris", "London"}, "Paris", true},
		{"too many choices", "Q?", []string{"A", "B", "C", "D"}, "A", true},
		{"correct not listed", "Q?", []string{"Paris", "London", "Rome"}, "Berlin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.content.CreateQuestion(tt.text, tt.choices, tt.correct)
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.KindValidation {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveQuestionsSubset(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedQuestions(t, 3)

	questions, err := env.content.ResolveQuestions(ids[:2])
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("resolved %d questions, want 2", len(questions))
	}

	// Unknown ids resolve to nothing rather than erroring.
	questions, err = env.content.ResolveQuestions([]uint{9999})
	if err != nil || len(questions) != 0 {
		t.Errorf("unknown ids: %d questions, err %v", len(questions), err)
	}

	questions, err = env.content.ResolveQuestions(nil)
	if err != nil || len(questions) != 0 {
		t.Errorf("empty selection: %d questions, err %v", len(questions), err)
	}
}

func TestEnsureImagesFallsBackToPlaceholder(t *testing.T) {
	env := newTestEnv(t)

	withImage := models.Participant{Name: "Ada Lovelace", ImageURL: "https://img.example/ada"}
	without := models.Participant{Name: "Marie Curie"}
	env.db.Create(&withImage)
	env.db.Create(&without)

	// No API configured, so the missing image gets the placeholder URL.
	result := env.content.EnsureImages([]models.Participant{withImage, without})

	if result[0].ImageURL != "https://img.example/ada" {
		t.Errorf("existing image replaced: %q", result[0].ImageURL)
	}
	if result[1].ImageURL != PlaceholderImageURL("Marie Curie") {
		t.Errorf("missing image = %q, want placeholder", result[1].ImageURL)
	}

	// The generated URL is persisted.
	var stored models.Participant
	env.db.First(&stored, without.ID)
	if stored.ImageURL != result[1].ImageURL {
		t.Errorf("stored image = %q, want %q", stored.ImageURL, result[1].ImageURL)
	}
}

func TestGenerateImageUsesAPI(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-123" {
			t.Errorf("authorization header = %q", auth)
		}
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Prompt, "Marie Curie") {
			t.Errorf("prompt %q does not mention the participant", req.Prompt)
		}
		json.NewEncoder(w).Encode(imageResponse{
			Data: []struct {
				URL string `json:"url"`
			}{{URL: "https://cdn.example/generated.png"}},
		})
	}))
	defer api.Close()

	images := NewImageGenService("key-123", api.URL, "test-model")
	if got := images.GenerateImage("Marie Curie"); got != "https://cdn.example/generated.png" {
		t.Errorf("generated URL = %q", got)
	}
}

func TestCreateParticipant(t *testing.T) {
	env := newTestEnv(t)

	participant, err := env.content.CreateParticipant("  Grace Hopper  ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if participant.Name != "Grace Hopper" {
		t.Errorf("name = %q, want trimmed", participant.Name)
	}

	if _, err := env.content.CreateParticipant("   ", ""); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("blank name: expected validation error, got %v", err)
	}
}
