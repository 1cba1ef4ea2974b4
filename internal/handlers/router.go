package handlers

import (
	"party-game-backend/internal/middleware"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"
	"party-game-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Auth     *services.AuthService
	Sessions *services.SessionService
	Game     *services.GameService
	Scoring  *services.ScoringService
	Stats    *services.StatisticsService
	Players  *services.PlayerService
	Content  *services.ContentService
	Hub      *notify.Hub
}

// NewRouter wires every handler onto a gin engine. The game routes are mounted
// once per game type so both variants expose the same surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	authHandler := NewAuthHandler(deps.Auth)
	sessionHandler := NewSessionHandler(deps.Sessions)
	gameHandler := NewGameHandler(deps.Game, deps.Sessions, deps.Stats)
	roundHandler := NewRoundHandler(deps.Scoring, deps.Game)
	playerHandler := NewPlayerHandler(deps.Players)
	contentHandler := NewContentHandler(deps.Content)
	streamHandler := NewStreamHandler(deps.Hub)
	wsHandler := NewWSHandler(deps.Hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/stream", streamHandler.Stream)

		api.POST("/players", playerHandler.RegisterPlayer)
		api.GET("/players/:token", playerHandler.GetPlayer)
		api.GET("/teams", playerHandler.ListTeams)
		api.POST("/teams", middleware.JWTAuth(deps.Auth), playerHandler.CreateTeam)

		content := api.Group("")
		content.Use(middleware.JWTAuth(deps.Auth))
		{
			content.POST("/participants", contentHandler.CreateParticipant)
			content.GET("/participants", contentHandler.ListParticipants)
			content.POST("/questions", contentHandler.CreateQuestion)
			content.GET("/questions", contentHandler.ListQuestions)
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(deps.Auth))
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/activate", sessionHandler.ActivateSession)
		}

		for _, gameType := range []string{models.GameTypeImageGuess, models.GameTypeQuiz} {
			g := api.Group("/" + gameType)
			g.Use(GameTypeContext(gameType))
			{
				g.POST("/session/:id/initialize", middleware.JWTAuth(deps.Auth), gameHandler.Initialize)
				g.POST("/session/:id/start", middleware.JWTAuth(deps.Auth), gameHandler.Start)
				g.POST("/session/:id/next", middleware.JWTAuth(deps.Auth), gameHandler.Next)
				g.GET("/session/:id/current", gameHandler.Current)
				g.GET("/session/:id/statistics", gameHandler.Statistics)
				g.GET("/session/active", gameHandler.Active)
				g.POST("/round/:id/answer", roundHandler.Answer)
				g.GET("/round/:id/reveal", middleware.JWTAuth(deps.Auth), roundHandler.Reveal)
			}
		}
	}

	return r
}
