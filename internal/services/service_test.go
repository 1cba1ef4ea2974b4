package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

// captureSink records published events so tests can assert ordering. Setting
// fail makes every publish error, to prove failures never reach callers.
type captureSink struct {
	mu       sync.Mutex
	messages []notify.Message
	fail     bool
}

func (s *captureSink) Publish(topic string, event notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker unavailable")
	}
	s.messages = append(s.messages, notify.Message{Topic: topic, Event: event})
	return nil
}

func (s *captureSink) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, len(s.messages))
	for i, m := range s.messages {
		types[i] = m.Event.EventType()
	}
	return types
}

func (s *captureSink) reset() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

type testEnv struct {
	db       *gorm.DB
	sink     *captureSink
	content  *ContentService
	stats    *StatisticsService
	sessions *SessionService
	scoring  *ScoringService
	game     *GameService
	players  *PlayerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	sink := &captureSink{}
	locks := NewSessionLocks()
	images := NewImageGenService("", "", "")
	content := NewContentService(db, images)
	stats := NewStatisticsService(db)

	return &testEnv{
		db:       db,
		sink:     sink,
		content:  content,
		stats:    stats,
		sessions: NewSessionService(db, sink),
		scoring:  NewScoringService(db, sink, locks),
		game:     NewGameService(db, content, stats, sink, locks),
		players:  NewPlayerService(db, sink),
	}
}

func (e *testEnv) seedQuestions(t *testing.T, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			Text:          "Question?",
			Choices:       []string{"Paris", "London", "Rome"},
			CorrectChoice: "Paris",
		}
		if err := e.db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		ids = append(ids, q.ID)
	}
	return ids
}

func (e *testEnv) seedParticipants(t *testing.T, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		p := models.Participant{Name: name, ImageURL: "https://img.example/" + name}
		if err := e.db.Create(&p).Error; err != nil {
			t.Fatalf("seed participant: %v", err)
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func (e *testEnv) seedPlayer(t *testing.T, name string) *models.Player {
	t.Helper()
	player := models.Player{Name: name, DeviceToken: "token-" + name}
	if err := e.db.Create(&player).Error; err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return &player
}

func (e *testEnv) newQuizSession(t *testing.T, rounds int) *models.Session {
	t.Helper()
	session, err := e.sessions.Create(models.GameTypeQuiz, 30)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if rounds > 0 {
		ids := e.seedQuestions(t, rounds)
		if _, err := e.game.Initialize(session.ID, ids); err != nil {
			t.Fatalf("initialize session: %v", err)
		}
	}
	return session
}
