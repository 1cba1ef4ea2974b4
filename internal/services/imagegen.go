package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

type ImageGenService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewImageGenService(apiKey, apiURL, model string) *ImageGenService {
	return &ImageGenService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

func (s *ImageGenService) IsAvailable() bool {
	return s.apiKey != ""
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateImage asks the image API for a portrait of the named person and falls
// back to a placeholder URL on any failure, so content setup never blocks on
// the external service.
func (s *ImageGenService) GenerateImage(name string) string {
	imageURL, err := s.callAPI(name)
	if err != nil {
		log.Printf("imagegen: falling back to placeholder for %q: %v", name, err)
		return PlaceholderImageURL(name)
	}
	return imageURL
}

func (s *ImageGenService) callAPI(name string) (string, error) {
	if !s.IsAvailable() {
		return "", fmt.Errorf("image generation is not configured")
	}

	reqBody := imageRequest{
		Model:  s.model,
		Prompt: fmt.Sprintf("A stylized illustrated portrait of %s, recognizable but artistic, no text", name),
		N:      1,
		Size:   "1024x1024",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unexpected response from image API: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("image API error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("image API returned no image")
	}

	return parsed.Data[0].URL, nil
}

func PlaceholderImageURL(name string) string {
	return "https://placehold.co/1024x1024?text=" + url.QueryEscape(name)
}
