package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/favorly/backend/internal/config"
	"github.com/emilythestrangee/favorly/backend/internal/handlers"
	"github.com/emilythestrangee/favorly/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	handler *handlers.Handler
}

// New creates and configures a new server around an already wired handler
func New(cfg *config.Config, handler *handlers.Handler) *Server {
	return &Server{cfg: cfg, handler: handler}
}

// HTTPServer builds the http.Server with the configured routes
func (s *Server) HTTPServer() *http.Server {
	router := s.RegisterRoutes()

	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.ServerPort,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)
		api.GET("/users/:id/followers", s.handler.User.GetFollowers)
		api.GET("/users/:id/posts", s.handler.Post.GetUserPosts)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWTSecret))
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

			// Favorite routes: a favorite target is either a post or a user
			protected.GET("/favorites", s.handler.Favorite.ListFavorites)
			protected.POST("/posts/:id/favorite", s.handler.Favorite.FavoritePost)
			protected.DELETE("/posts/:id/favorite", s.handler.Favorite.UnfavoritePost)
			protected.POST("/users/:id/favorite", s.handler.Favorite.FavoriteUser)
			protected.DELETE("/users/:id/favorite", s.handler.Favorite.UnfavoriteUser)

			// Notification routes
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
		}
	}

	return r
}
