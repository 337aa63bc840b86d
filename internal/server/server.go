package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/handlers"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/metrics"
	"github.com/gravadigital/hackathon-api/internal/middleware/auth"
	"github.com/gravadigital/hackathon-api/internal/middleware/events"
	"github.com/gravadigital/hackathon-api/internal/repository"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      repository.Container
	services   *services.Services
}

// New creates a new server instance
func New(cfg *config.Config, store repository.Container, svcs *services.Services) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		services: svcs,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.Router()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port, "environment", s.config.Server.Environment)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	// Configurar Gin
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()

	// Middleware básico
	router.Use(gin.Recovery())
	router.Use(events.CreateEvent())
	if s.config.Server.RequestTimeout > 0 {
		router.Use(events.Timeout(s.config.Server.RequestTimeout))
	}

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	if !s.config.IsProduction() {
		pprof.Register(router)
	}

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hackathon API is running",
			"status":  "healthy",
		})
	})
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.setupAPIRoutes(router)

	return router
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Health(c.Request.Context()); err != nil {
		logger.Database().Error("Health check failed", "error", err)
		response.ServiceUnavailableError(c, "Storage is unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": s.config.Storage.Type,
	})
}

// setupAPIRoutes configures all API routes. Reads are public; mutations and
// per-user reads need a bearer token.
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	eventHandler := handlers.NewEventHandler(s.services.Events, s.services.Results, s.services.Voting)
	ideaHandler := handlers.NewIdeaHandler(s.services.Ideas, s.services.Voting)
	voteHandler := handlers.NewVoteHandler(s.services.Voting, s.services.Results)
	resultHandler := handlers.NewResultHandler(s.services.Results)
	contributorHandler := handlers.NewContributorHandler(s.services.Contributors)
	userHandler := handlers.NewUserHandler(s.services.Users)

	authed := auth.Authenticate(s.config.Auth.JWTSecret)

	api := router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.POST("", authed, eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.DELETE("/:id", authed, eventHandler.DeleteEvent)
			events.GET("/:id/ideas", eventHandler.GetEventIdeas)
			events.PUT("/:id/stage", authed, eventHandler.UpdateEventStage)
			events.PUT("/:id/sub-stage", authed, eventHandler.UpdateEventSubStage)
			events.POST("/:id/results-time", authed, eventHandler.SetResultsTime)
			events.POST("/:id/winners", authed, eventHandler.ComputeWinners)
			events.GET("/:id/results", eventHandler.GetEventResults)
			events.GET("/:id/my-votes", authed, eventHandler.GetMyVotes)
		}

		ideas := api.Group("/ideas")
		{
			ideas.GET("", ideaHandler.GetAllIdeas)
			ideas.POST("", authed, ideaHandler.CreateIdea)
			ideas.GET("/owner/:email", ideaHandler.GetIdeasByOwner)
			ideas.GET("/contributed/:email", ideaHandler.GetIdeasByContributor)
			ideas.GET("/liked/:email", ideaHandler.GetLikedIdeas)
			ideas.GET("/:id", ideaHandler.GetIdea)
			ideas.PUT("/:id", authed, ideaHandler.UpdateIdea)
			ideas.DELETE("/:id", authed, ideaHandler.DeleteIdea)
			ideas.GET("/:id/events/:eventId", ideaHandler.GetIdeaForEvent)
			ideas.POST("/:id/events", authed, ideaHandler.AddEvent)
			ideas.DELETE("/:id/events/:eventId", authed, ideaHandler.RemoveEvent)
			ideas.PUT("/:id/contributors", authed, ideaHandler.AddContributor)
			ideas.POST("/:id/like", authed, ideaHandler.LikeIdea)
			ideas.DELETE("/:id/like", authed, ideaHandler.UnlikeIdea)
			ideas.POST("/:id/image", authed, ideaHandler.UploadImage)
		}

		votes := api.Group("/votes")
		{
			votes.POST("/category", authed, voteHandler.SubmitCategoryVote)
			votes.DELETE("/category", authed, voteHandler.RemoveCategoryVote)
			votes.POST("/rating", authed, voteHandler.SubmitRating)
			votes.GET("/idea/:id", voteHandler.GetIdeaRatings)
			votes.GET("/user/:email", voteHandler.GetUserRatings)
			votes.POST("/average-scores", authed, voteHandler.RecomputeAverageScores)
		}

		api.GET("/leaderboard", resultHandler.GetLeaderboard)

		requests := api.Group("/contributor-requests", authed)
		{
			requests.POST("", contributorHandler.CreateRequest)
			requests.GET("/pending/:ideaId/:eventId", contributorHandler.GetPending)
			requests.GET("/mine", contributorHandler.GetMine)
			requests.GET("/projects", contributorHandler.GetForMyProjects)
			requests.GET("/count", contributorHandler.GetPendingCount)
			requests.PUT("/:id/accept", contributorHandler.AcceptRequest)
			requests.PUT("/:id/decline", contributorHandler.DeclineRequest)
		}

		users := api.Group("/users")
		{
			users.POST("", authed, userHandler.SaveProfile)
			users.GET("", userHandler.GetUsers)
			users.GET("/me/admin", authed, userHandler.CheckAdmin)
			users.GET("/:email/wins", resultHandler.GetUserWins)
		}
	}
}
