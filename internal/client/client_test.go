package client

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"party-game-backend/internal/handlers"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"
	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// backend is a full server stack the role clients talk to over real HTTP and
// WebSocket connections. Tests drive the game through the services directly
// where a host would, and assert what the clients observe.
type backend struct {
	url      string
	token    string
	db       *gorm.DB
	hub      *notify.Hub
	sessions *services.SessionService
	game     *services.GameService
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Host{},
		&models.Team{},
		&models.Player{},
		&models.Participant{},
		&models.Question{},
		&models.Session{},
		&models.Round{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	hub := notify.NewHub()
	locks := services.NewSessionLocks()
	auth := services.NewAuthService(db, "test-secret")
	content := services.NewContentService(db, services.NewImageGenService("", "", ""))
	stats := services.NewStatisticsService(db)
	sessions := services.NewSessionService(db, hub)
	game := services.NewGameService(db, content, stats, hub, locks)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:     auth,
		Sessions: sessions,
		Game:     game,
		Scoring:  services.NewScoringService(db, hub, locks),
		Stats:    stats,
		Players:  services.NewPlayerService(db, hub),
		Content:  content,
		Hub:      hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := auth.Register("gamemaster", "secret123")
	if err != nil {
		t.Fatalf("register host: %v", err)
	}

	return &backend{
		url:      srv.URL,
		token:    token,
		db:       db,
		hub:      hub,
		sessions: sessions,
		game:     game,
	}
}

func (b *backend) seedQuestions(t *testing.T, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			Text:          "Capital of France?",
			Choices:       []string{"Paris", "London", "Rome"},
			CorrectChoice: "Paris",
		}
		if err := b.db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		ids = append(ids, q.ID)
	}
	return ids
}

// runningQuizSession creates, initializes and starts a quiz session.
func (b *backend) runningQuizSession(t *testing.T, rounds int) *models.Session {
	t.Helper()
	session, err := b.sessions.Create(models.GameTypeQuiz, 30)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := b.game.Initialize(session.ID, b.seedQuestions(t, rounds)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := b.game.Start(session.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHostDrivesSession(t *testing.T) {
	b := newBackend(t)
	session, err := b.sessions.Create(models.GameTypeQuiz, 30)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	host := NewHost(b.url, models.GameTypeQuiz, b.token)
	defer host.Close()
	host.AttachSession(session.ID)

	if err := host.Watch(); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := host.Initialize(b.seedQuestions(t, 2)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := host.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if host.State() != StatePending {
		t.Fatalf("state = %q, want pending", host.State())
	}
	if snapshot := host.Session(); snapshot.TotalRounds != 2 {
		t.Fatalf("total rounds = %d, want 2", snapshot.TotalRounds)
	}

	if err := host.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if host.State() != StateActiveRound {
		t.Fatalf("state = %q, want active_round", host.State())
	}

	view, err := host.Reveal()
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if view.CorrectAnswer != "Paris" || view.TotalAnswersCount != 0 {
		t.Errorf("reveal view = %+v", view)
	}

	if err := host.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	snapshot := host.Session()
	if snapshot.CurrentRoundIndex == nil || *snapshot.CurrentRoundIndex != 1 {
		t.Fatalf("round index = %v, want 1", snapshot.CurrentRoundIndex)
	}

	if err := host.Advance(); err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if host.State() != StateCompleted {
		t.Fatalf("state = %q, want completed", host.State())
	}
	if _, err := host.Reveal(); err == nil {
		t.Error("reveal on a completed session should fail")
	}
}

func TestPlayerRoundLifecycle(t *testing.T) {
	b := newBackend(t)
	session := b.runningQuizSession(t, 2)

	player := NewPlayer(b.url, models.GameTypeQuiz, nil)
	defer player.Close()
	if err := player.Register("pat", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := player.Join(session.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if player.State() != StateActiveRound {
		t.Fatalf("state = %q, want active_round", player.State())
	}

	result, err := player.SubmitGuess("Paris", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.IsCorrect {
		t.Error("correct guess scored as wrong")
	}
	if !player.Answered() {
		t.Error("submit lock not engaged")
	}
	if _, err := player.SubmitGuess("Rome", nil); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second submit: %v, want ErrAlreadyAnswered", err)
	}

	// The host advancing releases the lock via the new_round push event.
	if _, err := b.game.Advance(session.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	waitFor(t, "submit lock release", func() bool { return !player.Answered() })

	result, err = player.SubmitGuess("London", nil)
	if err != nil {
		t.Fatalf("round 2 submit: %v", err)
	}
	if result.IsCorrect {
		t.Error("wrong guess scored as correct")
	}

	if _, err := b.game.Advance(session.ID); err != nil {
		t.Fatalf("final advance: %v", err)
	}
	waitFor(t, "completed state", func() bool { return player.State() == StateCompleted })
}

func TestPlayerIdentitySurvivesRestart(t *testing.T) {
	b := newBackend(t)
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "device-token")}

	first := NewPlayer(b.url, models.GameTypeQuiz, store)
	defer first.Close()
	if err := first.Register("sam", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.deviceToken == "" {
		t.Fatal("device token not assigned")
	}

	// A fresh client with the same store comes back as the same player.
	second := NewPlayer(b.url, models.GameTypeQuiz, store)
	defer second.Close()
	if err := second.Register("sam", nil); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if second.deviceToken != first.deviceToken || second.playerID != first.playerID {
		t.Errorf("identity changed: %d/%q vs %d/%q",
			second.playerID, second.deviceToken, first.playerID, first.deviceToken)
	}
}

func TestFileTokenStore(t *testing.T) {
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "token")}

	token, err := store.Load()
	if err != nil || token != "" {
		t.Fatalf("load missing = %q, %v, want empty", token, err)
	}

	if err := store.Save("abc-123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if token, err = store.Load(); err != nil || token != "abc-123" {
		t.Fatalf("load = %q, %v, want abc-123", token, err)
	}
}

func TestDisplayFollowsActivation(t *testing.T) {
	b := newBackend(t)

	a, _ := b.sessions.Create(models.GameTypeQuiz, 30)
	second, _ := b.sessions.Create(models.GameTypeQuiz, 30)
	other, _ := b.sessions.Create(models.GameTypeImageGuess, 30)
	if _, err := b.sessions.Activate(a.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	display := NewDisplay(b.url, models.GameTypeQuiz)
	defer display.Close()
	if err := display.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if display.SessionID() != a.ID {
		t.Fatalf("attached to %d, want %d", display.SessionID(), a.ID)
	}

	// Featuring another quiz session moves the display over.
	if _, err := b.sessions.Activate(second.ID); err != nil {
		t.Fatalf("activate second: %v", err)
	}
	waitFor(t, "display re-attach", func() bool { return display.SessionID() == second.ID })

	// Activations for the other game type are ignored.
	if _, err := b.sessions.Activate(other.ID); err != nil {
		t.Fatalf("activate other type: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if display.SessionID() != second.ID {
		t.Errorf("display followed an image_guess activation to %d", display.SessionID())
	}
}
