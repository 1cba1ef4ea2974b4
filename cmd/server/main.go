package main

import (
	"log"

	"party-game-backend/internal/config"
	"party-game-backend/internal/database"
	"party-game-backend/internal/handlers"
	"party-game-backend/internal/notify"
	"party-game-backend/internal/services"

	_ "party-game-backend/docs"
)

// @title           Party Game API
// @version         1.0
// @description     Session and round orchestration for the AI image-guess and quiz party games
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := notify.NewHub()
	locks := services.NewSessionLocks()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	imageService := services.NewImageGenService(cfg.ImageAPIKey, cfg.ImageAPIURL, cfg.ImageAPIModel)
	contentService := services.NewContentService(db, imageService)
	statsService := services.NewStatisticsService(db)
	sessionService := services.NewSessionService(db, hub)
	scoringService := services.NewScoringService(db, hub, locks)
	gameService := services.NewGameService(db, contentService, statsService, hub, locks)
	playerService := services.NewPlayerService(db, hub)

	r := handlers.NewRouter(handlers.RouterDeps{
		Auth:     authService,
		Sessions: sessionService,
		Game:     gameService,
		Scoring:  scoringService,
		Stats:    statsService,
		Players:  playerService,
		Content:  contentService,
		Hub:      hub,
	})

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
