// Package client mirrors the server's session state machine for the three
// connected roles: host, display and player. All roles share the same sync
// loop: subscribe to push topics, treat every event as an invalidation, and
// re-fetch the authoritative state over REST rather than trusting payloads.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"party-game-backend/internal/notify"

	"github.com/gorilla/websocket"
)

type State string

const (
	StateUnknown     State = "unknown"
	StatePending     State = "pending"
	StateActiveRound State = "active_round"
	StateRevealed    State = "revealed"
	StateCompleted   State = "completed"
)

// SessionState is the client-side mirror of GET .../session/{id}/current.
type SessionState struct {
	SessionID         uint   `json:"session_id"`
	GameType          string `json:"game_type"`
	Status            string `json:"status"`
	CurrentRoundIndex *int   `json:"current_round_index"`
	TotalRounds       int    `json:"total_rounds"`
	CurrentRound      *Round `json:"current_round,omitempty"`
}

type Round struct {
	ID           uint     `json:"id"`
	OrderNum     int      `json:"order_num"`
	ContentType  string   `json:"content_type"`
	ImageURL     string   `json:"image_url,omitempty"`
	QuestionText string   `json:"question_text,omitempty"`
	Choices      []string `json:"choices,omitempty"`
}

type Client struct {
	baseURL    string
	gameType   string
	httpClient *http.Client
	authToken  string

	mu        sync.Mutex
	sessionID uint
	session   *SessionState
	revealed  bool

	conn     *websocket.Conn
	connMu   sync.Mutex
	stopped  chan struct{}
	stopOnce sync.Once

	// Role hooks, invoked without c.mu held.
	onNewRound  func()
	onActivated func(sessionID uint, gameType string)
	onEvent     func(msg notify.Message)
}

func New(baseURL, gameType string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		gameType:   gameType,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		stopped:    make(chan struct{}),
	}
}

// AttachSession points the client at a session. The caller is expected to
// Refresh and Subscribe afterwards.
func (c *Client) AttachSession(sessionID uint) {
	c.mu.Lock()
	c.sessionID = sessionID
	c.session = nil
	c.revealed = false
	c.mu.Unlock()
}

func (c *Client) SessionID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Refresh re-fetches the authoritative session state.
func (c *Client) Refresh() error {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()
	if sessionID == 0 {
		return fmt.Errorf("no session attached")
	}

	var state SessionState
	path := fmt.Sprintf("/api/v1/%s/session/%d/current", c.gameType, sessionID)
	if err := c.get(path, &state); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = &state
	if state.Status != "in_progress" {
		c.revealed = false
	}
	c.mu.Unlock()
	return nil
}

// State derives the local view state from the last synced snapshot plus the
// local revealed flag. Revealed resets on the next new_round event.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return StateUnknown
	}
	switch c.session.Status {
	case "pending":
		return StatePending
	case "completed":
		return StateCompleted
	case "in_progress":
		if c.revealed {
			return StateRevealed
		}
		return StateActiveRound
	}
	return StateUnknown
}

// Session returns a copy of the last synced snapshot, or nil before the first
// successful Refresh.
func (c *Client) Session() *SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	snapshot := *c.session
	return &snapshot
}

// Subscribe opens the push connection and starts the sync loop. Events arrive
// on their topics in publish order; cross-topic ordering is not guaranteed.
func (c *Client) Subscribe(topics ...string) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/ws?topics=" + strings.Join(topics, ",")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.connMu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg notify.Message
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.stopped:
			default:
				log.Printf("client: subscription closed: %v", err)
			}
			return
		}
		c.handleEvent(msg)
	}
}

func (c *Client) handleEvent(msg notify.Message) {
	switch msg.Event.EventType() {
	case notify.EventNewRound:
		c.mu.Lock()
		c.revealed = false
		c.mu.Unlock()
		if c.onNewRound != nil {
			c.onNewRound()
		}
		c.refreshQuietly()
	case notify.EventRevealAnswers:
		c.mu.Lock()
		c.revealed = true
		c.mu.Unlock()
	case notify.EventRoundEnded, notify.EventGameEnded,
		notify.EventScoreUpdate, notify.EventAnswerSubmitted,
		notify.EventPlayerJoined, notify.EventNewSession:
		c.refreshQuietly()
	case notify.EventSessionActivated:
		sessionID, _ := msg.Event["session_id"].(float64)
		gameType, _ := msg.Event["game_type"].(string)
		if c.onActivated != nil && gameType == c.gameType {
			c.onActivated(uint(sessionID), gameType)
		}
	}
	if c.onEvent != nil {
		c.onEvent(msg)
	}
}

func (c *Client) refreshQuietly() {
	if err := c.Refresh(); err != nil {
		log.Printf("client: refresh failed: %v", err)
	}
}

// Close tears down the push subscription; the only cancellation primitive.
func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stopped) })
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

func (c *Client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
