package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/favorly/backend/internal/favorites"
	"github.com/emilythestrangee/favorly/backend/internal/models"
)

type FavoriteHandler struct {
	favorite       *favorites.Service
	fullProjection bool
}

func NewFavoriteHandler(favorite *favorites.Service, fullProjection bool) *FavoriteHandler {
	return &FavoriteHandler{favorite: favorite, fullProjection: fullProjection}
}

func targetFromParam(c *gin.Context, kind models.FavoritableType) (favorites.Target, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return favorites.Target{}, false
	}
	return favorites.Target{Kind: kind, ID: id}, true
}

// FavoritePost marks a post as favorited by the current user
func (h *FavoriteHandler) FavoritePost(c *gin.Context) {
	h.create(c, models.FavoritablePost)
}

// FavoriteUser favorites (follows) another user
func (h *FavoriteHandler) FavoriteUser(c *gin.Context) {
	h.create(c, models.FavoritableUser)
}

// UnfavoritePost removes a post from the current user's favorites
func (h *FavoriteHandler) UnfavoritePost(c *gin.Context) {
	h.delete(c, models.FavoritablePost)
}

// UnfavoriteUser unfavorites (unfollows) a user
func (h *FavoriteHandler) UnfavoriteUser(c *gin.Context) {
	h.delete(c, models.FavoritableUser)
}

func (h *FavoriteHandler) create(c *gin.Context, kind models.FavoritableType) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	target, ok := targetFromParam(c, kind)
	if !ok {
		return
	}

	created, err := h.favorite.Create(actorID, target)
	switch {
	case errors.Is(err, favorites.ErrSelfFavorite):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": gin.H{"favoritable": []string{"You cannot favorite yourself."}},
		})
		return
	case errors.Is(err, favorites.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to favorite"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"message": "Already favorited"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Favorited"})
}

func (h *FavoriteHandler) delete(c *gin.Context, kind models.FavoritableType) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	target, ok := targetFromParam(c, kind)
	if !ok {
		return
	}

	if err := h.favorite.Delete(actorID, target); err != nil {
		if errors.Is(err, favorites.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfavorite"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFavorites returns the current user's favorites grouped by target
// kind. Both keys are always present, never null.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listing, err := h.favorite.ListForActor(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}

	posts := []gin.H{}
	for _, post := range listing.Posts {
		posts = append(posts, h.postProjection(post))
	}

	users := []gin.H{}
	for _, user := range listing.Users {
		users = append(users, h.userProjection(user))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"users": users,
	})
}

func (h *FavoriteHandler) postProjection(post models.Post) gin.H {
	projection := gin.H{
		"id":      post.ID,
		"title":   post.Title,
		"body":    post.Body,
		"user_id": post.UserID,
	}
	if h.fullProjection {
		projection["user"] = h.userProjection(post.User)
		projection["image"] = post.Image
		projection["created_at"] = post.CreatedAt
	}
	return projection
}

func (h *FavoriteHandler) userProjection(user models.User) gin.H {
	projection := gin.H{
		"id":   user.ID,
		"name": user.Name,
	}
	if h.fullProjection {
		projection["email"] = user.Email
	}
	return projection
}
