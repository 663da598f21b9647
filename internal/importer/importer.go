// Package importer pulls users from a remote JSON document into the
// database. Used by the one-off cmd/import utility.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/favorly/backend/internal/models"
)

// Imported users all start with this password until they reset it.
const defaultPassword = "password"

const chunkSize = 100

// RemoteUser is the shape of one entry in the imported JSON array.
type RemoteUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Fetch downloads the user list and truncates it to limit. The limit must
// be non-negative.
func Fetch(ctx context.Context, client *http.Client, url string, limit int) ([]RemoteUser, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	var users []RemoteUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decoding user list: %w", err)
	}

	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// Prepare converts remote users to rows. All imported users share the
// default password; the hash is computed once since bcrypt is slow.
func Prepare(users []RemoteUser) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing default password: %w", err)
	}

	rows := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		rows = append(rows, models.User{
			Name:     u.Name,
			Email:    u.Email,
			Password: string(hash),
		})
	}
	return rows, nil
}

// Insert bulk inserts the rows in chunks, skipping emails that already
// exist. Returns the number of rows handed to the database.
func Insert(db *gorm.DB, rows []models.User) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	err := db.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		CreateInBatches(rows, chunkSize).Error
	if err != nil {
		return 0, fmt.Errorf("inserting users: %w", err)
	}
	return len(rows), nil
}
