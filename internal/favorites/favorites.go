package favorites

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/favorly/backend/internal/models"
)

var (
	// ErrSelfFavorite is returned when a user tries to favorite themselves.
	ErrSelfFavorite = errors.New("you cannot favorite yourself")
	// ErrTargetNotFound is returned when the favorited entity does not exist.
	ErrTargetNotFound = errors.New("favorite target not found")
	// ErrNotFound is returned when deleting a favorite that was never created.
	ErrNotFound = errors.New("favorite not found")
)

// Target identifies a favoritable entity by kind and id.
type Target struct {
	Kind models.FavoritableType
	ID   int
}

func PostTarget(id int) Target {
	return Target{Kind: models.FavoritablePost, ID: id}
}

func UserTarget(id int) Target {
	return Target{Kind: models.FavoritableUser, ID: id}
}

// Listing groups an actor's favorites by target kind. Both slices are
// always non-nil so serialized responses never carry null keys.
type Listing struct {
	Posts []models.Post
	Users []models.User
}

// Service is the query surface over the favorites table.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// exists resolves the target row through the lookup matching its tag.
func (s *Service) exists(t Target) (bool, error) {
	var count int64
	var err error
	switch t.Kind {
	case models.FavoritablePost:
		err = s.db.Model(&models.Post{}).Where("id = ?", t.ID).Count(&count).Error
	case models.FavoritableUser:
		err = s.db.Model(&models.User{}).Where("id = ?", t.ID).Count(&count).Error
	default:
		return false, fmt.Errorf("unknown favoritable type %q", t.Kind)
	}
	if err != nil {
		return false, fmt.Errorf("resolving favorite target: %w", err)
	}
	return count > 0, nil
}

// Create records that actorID favorited the target. It returns true when a
// new row was inserted and false when the favorite already existed, so the
// caller can answer 201 vs 409 without treating the duplicate as an error.
// A concurrent duplicate insert is absorbed by the unique constraint.
func (s *Service) Create(actorID int, target Target) (bool, error) {
	if target.Kind == models.FavoritableUser && target.ID == actorID {
		return false, ErrSelfFavorite
	}

	ok, err := s.exists(target)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrTargetNotFound
	}

	favorite := models.Favorite{
		UserID:          actorID,
		FavoritableType: target.Kind,
		FavoritableID:   target.ID,
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite)
	if result.Error != nil {
		return false, fmt.Errorf("creating favorite: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the actor's favorite of the target. ErrNotFound is
// returned when no such favorite exists.
func (s *Service) Delete(actorID int, target Target) error {
	result := s.db.
		Where("user_id = ? AND favoritable_type = ? AND favoritable_id = ?", actorID, target.Kind, target.ID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("deleting favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForActor returns the actor's favorites partitioned by target kind,
// each resolved to its entity, in insertion order. Favorites whose target
// has since been deleted are silently dropped.
func (s *Service) ListForActor(actorID int) (Listing, error) {
	listing := Listing{Posts: []models.Post{}, Users: []models.User{}}

	var favs []models.Favorite
	if err := s.db.Where("user_id = ?", actorID).Order("id asc").Find(&favs).Error; err != nil {
		return listing, fmt.Errorf("listing favorites: %w", err)
	}

	var postIDs, userIDs []int
	for _, fav := range favs {
		switch fav.FavoritableType {
		case models.FavoritablePost:
			postIDs = append(postIDs, fav.FavoritableID)
		case models.FavoritableUser:
			userIDs = append(userIDs, fav.FavoritableID)
		}
	}

	posts := map[int]models.Post{}
	if len(postIDs) > 0 {
		var rows []models.Post
		if err := s.db.Preload("User").Where("id IN ?", postIDs).Find(&rows).Error; err != nil {
			return listing, fmt.Errorf("resolving favorited posts: %w", err)
		}
		for _, p := range rows {
			posts[p.ID] = p
		}
	}

	users := map[int]models.User{}
	if len(userIDs) > 0 {
		var rows []models.User
		if err := s.db.Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
			return listing, fmt.Errorf("resolving favorited users: %w", err)
		}
		for _, u := range rows {
			users[u.ID] = u
		}
	}

	for _, fav := range favs {
		switch fav.FavoritableType {
		case models.FavoritablePost:
			if p, ok := posts[fav.FavoritableID]; ok {
				listing.Posts = append(listing.Posts, p)
			}
		case models.FavoritableUser:
			if u, ok := users[fav.FavoritableID]; ok {
				listing.Users = append(listing.Users, u)
			}
		}
	}

	return listing, nil
}

// FavoritersOf returns every user who favorited the target, without
// duplicates. For a user target these are the target's followers.
func (s *Service) FavoritersOf(target Target) ([]models.User, error) {
	var users []models.User
	err := s.db.Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN favorites ON favorites.user_id = users.id").
		Where("favorites.favoritable_type = ? AND favorites.favoritable_id = ?", target.Kind, target.ID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("listing favoriters: %w", err)
	}
	return users, nil
}

// DeleteForTarget removes every favorite pointing at the target. Called in
// the same transaction that deletes the target row, since a polymorphic
// reference cannot cascade at the database level.
func DeleteForTarget(db *gorm.DB, target Target) error {
	return db.
		Where("favoritable_type = ? AND favoritable_id = ?", target.Kind, target.ID).
		Delete(&models.Favorite{}).Error
}
