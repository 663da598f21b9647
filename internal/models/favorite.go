package models

import "time"

// FavoritableType tags which entity kind a favorite points at.
type FavoritableType string

const (
	FavoritablePost FavoritableType = "post"
	FavoritableUser FavoritableType = "user"
)

// Favorite is a directed "user favorited X" edge where X is either a
// post or a user. A user favoriting another user is how following works.
type Favorite struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	UserID          int             `gorm:"not null;uniqueIndex:uq_favorites_user_target" json:"user_id"`
	FavoritableType FavoritableType `gorm:"type:varchar(10);not null;uniqueIndex:uq_favorites_user_target" json:"favoritable_type"`
	FavoritableID   int             `gorm:"not null;uniqueIndex:uq_favorites_user_target" json:"favoritable_id"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
}
