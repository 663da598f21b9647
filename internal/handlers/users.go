package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/favorly/backend/internal/favorites"
	"github.com/emilythestrangee/favorly/backend/internal/models"
)

type UserHandler struct {
	db       *gorm.DB
	favorite *favorites.Service
}

func NewUserHandler(db *gorm.DB, favorite *favorites.Service) *UserHandler {
	return &UserHandler{db: db, favorite: favorite}
}

// GetUserProfile returns a user's profile with their posts and follower count
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")
	var user models.User

	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Get user's posts
	var posts []models.Post
	h.db.Where("user_id = ?", userID).Preload("User").Order("created_at desc").Find(&posts)
	if posts == nil {
		posts = []models.Post{}
	}

	// Followers are the users who favorited this user
	var followerCount int64
	h.db.Model(&models.Favorite{}).
		Where("favoritable_type = ? AND favoritable_id = ?", models.FavoritableUser, user.ID).
		Count(&followerCount)

	// Check if current user favorited this user
	isFavorited := false
	if currentID, ok := currentUserID(c); ok {
		var fav models.Favorite
		err := h.db.
			Where("user_id = ? AND favoritable_type = ? AND favoritable_id = ?", currentID, models.FavoritableUser, user.ID).
			First(&fav).Error
		isFavorited = err == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"posts":          posts,
		"follower_count": followerCount,
		"is_favorited":   isFavorited,
	})
}

// GetFollowers returns the users who favorited a user
func (h *UserHandler) GetFollowers(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	users, err := h.favorite.FavoritersOf(favorites.UserTarget(user.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}

	followers := []gin.H{}
	for _, follower := range users {
		followers = append(followers, gin.H{
			"id":   follower.ID,
			"name": follower.Name,
		})
	}

	c.JSON(http.StatusOK, followers)
}
