package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/favorly/backend/internal/config"
	"github.com/emilythestrangee/favorly/backend/internal/favorites"
	"github.com/emilythestrangee/favorly/backend/internal/notify"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	User         *UserHandler
	Favorite     *FavoriteHandler
	Notification *NotificationHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, dispatcher *notify.Dispatcher) *Handler {
	favoriteService := favorites.NewService(db)

	return &Handler{
		Auth:         NewAuthHandler(db, cfg.JWTSecret),
		Post:         NewPostHandler(db, dispatcher, cfg.UploadDir),
		User:         NewUserHandler(db, favoriteService),
		Favorite:     NewFavoriteHandler(favoriteService, cfg.FavoritesFullProjection),
		Notification: NewNotificationHandler(db),
	}
}

// currentUserID pulls the authenticated user's id out of the context set
// by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
