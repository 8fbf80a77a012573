// Package server wires services, handlers, and routes together and owns
// the process lifecycle: the HTTP listener, the scheduled expiry sweep,
// and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/sakif/stagecall/internal/auth"
	"github.com/sakif/stagecall/internal/handler"
	"github.com/sakif/stagecall/internal/middleware"
	sqliteRepo "github.com/sakif/stagecall/internal/repository/sqlite"
	"github.com/sakif/stagecall/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port             int
	DBPath           string
	JWTSecret        string
	PracticeCapacity int
}

// Server owns the router, the database connection, and the cron
// scheduler that sweeps expired opportunities.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	cron   *cron.Cron
}

// New assembles the full dependency chain: database, services,
// handlers, routes, and the hourly expiry sweep.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		cron:   cron.New(),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Services. The sqlite DB satisfies every repository interface.
	users := service.NewUserService(s.db, passwords, s.logger)
	applause := service.NewApplauseService(s.db, s.logger)
	restrictions := service.NewRestrictionService(s.db, s.logger)
	posts := service.NewPostService(s.db, s.db, s.logger)
	comments := service.NewCommentService(s.db, s.db, s.logger)
	tags := service.NewTagService(s.db, s.db, s.db, s.logger)
	votes := service.NewVoteService(s.db, s.db, s.logger)
	connections := service.NewConnectionService(s.db, s.db, s.logger)
	challenges := service.NewChallengeService(s.db, s.logger)
	opportunities := service.NewOpportunityService(s.db, s.logger)
	applications := service.NewApplicationService(s.db, s.db, s.logger)
	queues := service.NewQueueService(s.db, s.logger)
	portfolios := service.NewPortfolioService(s.db, s.db, s.logger)
	folders := service.NewFolderService(s.db, s.config.PracticeCapacity, s.logger)
	media := service.NewMediaService(s.db, s.logger)

	// Expired listings deactivate within the hour.
	if _, err := s.cron.AddFunc("@hourly", func() {
		swept, err := opportunities.ExpireSweep(context.Background())
		if err != nil {
			s.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
			return
		}
		if swept > 0 {
			s.logger.Info("expiry sweep completed", slog.Int("swept", swept))
		}
	}); err != nil {
		return fmt.Errorf("scheduling expiry sweep: %w", err)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(users, applause, restrictions, portfolios, folders, tokens, s.logger)
	userHandler := handler.NewUserHandler(users, applause, restrictions, posts, comments, tags, votes,
		connections, challenges, opportunities, applications, queues, portfolios, folders, media, s.logger)
	applauseHandler := handler.NewApplauseHandler(applause, users, s.logger)
	postHandler := handler.NewPostHandler(posts, comments, tags, votes, applause, restrictions, media, s.logger)
	commentHandler := handler.NewCommentHandler(comments, applause, s.logger)
	tagHandler := handler.NewTagHandler(tags, applause, s.logger)
	voteHandler := handler.NewVoteHandler(votes, posts, applause, s.logger)
	connectionHandler := handler.NewConnectionHandler(connections, users, applause, s.logger)
	challengeHandler := handler.NewChallengeHandler(challenges, applause, restrictions, s.logger)
	opportunityHandler := handler.NewOpportunityHandler(opportunities, applications, queues, restrictions, s.logger)
	applicationHandler := handler.NewApplicationHandler(applications, applause, restrictions, s.logger)
	queueHandler := handler.NewQueueHandler(queues, applications, applause, restrictions, s.logger)
	portfolioHandler := handler.NewPortfolioHandler(portfolios, s.logger)
	folderHandler := handler.NewFolderHandler(folders, restrictions, s.logger)
	mediaHandler := handler.NewMediaHandler(media, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))

			r.Get("/users", userHandler.HandleList)
			r.Get("/users/{id}", userHandler.HandleGet)
			r.Get("/users/{id}/roles", userHandler.HandleGetRoles)
			r.Get("/users/{id}/applause", applauseHandler.HandleGet)
			r.Get("/users/{id}/posts", postHandler.HandleListByAuthor)
			r.Get("/users/{id}/tags", tagHandler.HandleListByTagged)
			r.Get("/users/{id}/opportunities", opportunityHandler.HandleListByOwner)
			r.Get("/users/{id}/portfolio", portfolioHandler.HandleGet)
			r.Get("/applause/leaderboard", applauseHandler.HandleLeaderboard)
			r.Get("/categories", postHandler.HandleListCategories)
			r.Get("/categories/{id}/posts", postHandler.HandleCategoryPosts)
			r.Get("/posts", postHandler.HandleList)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Get("/posts/{id}/tags", tagHandler.HandleListByPost)
			r.Get("/comments", commentHandler.HandleListByParent)
			r.Get("/challenges", challengeHandler.HandleListPosted)
			r.Get("/opportunities", opportunityHandler.HandleList)
			r.Get("/opportunities/{id}", opportunityHandler.HandleGet)
			r.Get("/opportunities/{id}/in-range", opportunityHandler.HandleInRange)
			r.Get("/media/{id}", mediaHandler.HandleGet)
		})

		// Authenticated operations.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Put("/users/me", userHandler.HandleUpdate)
			r.Put("/users/me/roles", userHandler.HandleEditRoles)
			r.Delete("/users/me", userHandler.HandleDelete)

			r.Post("/categories", postHandler.HandleCreateCategory)
			r.Delete("/categories/{id}", postHandler.HandleDeleteCategory)

			r.Post("/posts", postHandler.HandleCreate)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)

			r.Post("/comments", commentHandler.HandleCreate)
			r.Put("/comments/{id}", commentHandler.HandleUpdate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)

			r.Post("/tags", tagHandler.HandleCreate)
			r.Delete("/tags", tagHandler.HandleDelete)

			r.Post("/votes", voteHandler.HandleVote)

			r.Get("/connections", connectionHandler.HandleListConnections)
			r.Delete("/connections/{userId}", connectionHandler.HandleRemoveConnection)
			r.Get("/connections/requests", connectionHandler.HandleListRequests)
			r.Post("/connections/requests", connectionHandler.HandleSendRequest)
			r.Post("/connections/requests/accept", connectionHandler.HandleAcceptRequest)
			r.Post("/connections/requests/reject", connectionHandler.HandleRejectRequest)
			r.Delete("/connections/requests/{userId}", connectionHandler.HandleWithdrawRequest)

			r.Post("/challenges", challengeHandler.HandlePropose)
			r.Get("/challenges/proposed", challengeHandler.HandleListProposed)
			r.Post("/challenges/post", challengeHandler.HandlePostRandom)
			r.Post("/challenges/{id}/accept", challengeHandler.HandleAccept)
			r.Post("/challenges/{id}/reject", challengeHandler.HandleReject)

			r.Post("/opportunities", opportunityHandler.HandleCreate)
			r.Put("/opportunities/{id}", opportunityHandler.HandleUpdate)
			r.Post("/opportunities/{id}/deactivate", opportunityHandler.HandleDeactivate)
			r.Post("/opportunities/{id}/reactivate", opportunityHandler.HandleReactivate)
			r.Delete("/opportunities/{id}", opportunityHandler.HandleDelete)
			r.Get("/opportunities/{id}/applications", applicationHandler.HandleListForOpportunity)

			r.Get("/applications", applicationHandler.HandleListMine)
			r.Post("/applications", applicationHandler.HandleCreate)
			r.Put("/applications/{id}/status", applicationHandler.HandleChangeStatus)

			r.Post("/queues", queueHandler.HandleCreate)
			r.Get("/queues/{opportunityId}", queueHandler.HandleGet)
			r.Get("/queues/{opportunityId}/estimated-time", queueHandler.HandleEstimatedTime)
			r.Post("/queues/{opportunityId}/progress", queueHandler.HandleProgress)
			r.Delete("/queues/{opportunityId}", queueHandler.HandleDelete)

			r.Put("/portfolio", portfolioHandler.HandleUpdate)
			r.Post("/portfolio/media", portfolioHandler.HandleAddMedia)
			r.Delete("/portfolio/media/{mediaId}", portfolioHandler.HandleRemoveMedia)

			r.Get("/practice", folderHandler.HandleGetPractice)
			r.Post("/practice/contents", folderHandler.HandleAddPractice)
			r.Delete("/practice/contents/{contentId}", folderHandler.HandleRemovePractice)
			r.Put("/practice/capacity", folderHandler.HandleSetCapacity)

			r.Get("/repertoire", folderHandler.HandleListRepertoire)
			r.Post("/repertoire", folderHandler.HandleCreateRepertoire)
			r.Post("/repertoire/{id}/contents", folderHandler.HandleAddRepertoire)
			r.Delete("/repertoire/{id}/contents/{contentId}", folderHandler.HandleRemoveRepertoire)
			r.Delete("/repertoire/{id}", folderHandler.HandleDeleteRepertoire)

			r.Post("/media", mediaHandler.HandleCreate)
			r.Delete("/media/{id}", mediaHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the listener and the sweep scheduler until a shutdown
// signal arrives, then drains in-flight requests and closes the
// database.
func (s *Server) Start() error {
	defer s.db.Close()

	s.cron.Start()
	defer s.cron.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
