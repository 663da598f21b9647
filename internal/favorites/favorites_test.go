package favorites

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/favorly/backend/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("favorly_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		log.Fatalf("Failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Favorite{}, &models.Notification{}); err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}
	testDB = db

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate container: %v", err)
	}
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	err := testDB.Exec("TRUNCATE notifications, favorites, posts, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}

func createUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name), Password: "hash"}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func createPost(t *testing.T, author models.User, title string) models.Post {
	t.Helper()
	post := models.Post{Title: title, Body: "body", UserID: author.ID}
	require.NoError(t, testDB.Create(&post).Error)
	return post
}

func TestCreate_PostFavorite(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	author := createUser(t, "bob")
	post := createPost(t, author, "hello")

	created, err := svc.Create(actor.ID, PostTarget(post.ID))
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	testDB.Model(&models.Favorite{}).
		Where("user_id = ? AND favoritable_type = ? AND favoritable_id = ?", actor.ID, models.FavoritablePost, post.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreate_IsIdempotent(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	target := createUser(t, "bob")

	created, err := svc.Create(actor.ID, UserTarget(target.ID))
	require.NoError(t, err)
	assert.True(t, created)

	// Second call reports "already existed" and leaves exactly one row
	created, err = svc.Create(actor.ID, UserTarget(target.ID))
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	testDB.Model(&models.Favorite{}).Where("user_id = ?", actor.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreate_RejectsSelfFavorite(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")

	created, err := svc.Create(actor.ID, UserTarget(actor.ID))
	assert.ErrorIs(t, err, ErrSelfFavorite)
	assert.False(t, created)

	var count int64
	testDB.Model(&models.Favorite{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreate_MissingTarget(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")

	_, err := svc.Create(actor.ID, PostTarget(999))
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = svc.Create(actor.ID, UserTarget(999))
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestDelete_ThenVerify(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	author := createUser(t, "bob")
	post := createPost(t, author, "hello")

	_, err := svc.Create(actor.ID, PostTarget(post.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(actor.ID, PostTarget(post.ID)))

	listing, err := svc.ListForActor(actor.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Posts)

	// Deleting again reports not found
	assert.ErrorIs(t, svc.Delete(actor.ID, PostTarget(post.ID)), ErrNotFound)
}

func TestDelete_NeverFavorited(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	target := createUser(t, "bob")

	assert.ErrorIs(t, svc.Delete(actor.ID, UserTarget(target.ID)), ErrNotFound)
}

func TestListForActor_GroupsByTargetKind(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	author := createUser(t, "bob")
	post := createPost(t, author, "hello")

	_, err := svc.Create(actor.ID, PostTarget(post.ID))
	require.NoError(t, err)
	_, err = svc.Create(actor.ID, UserTarget(author.ID))
	require.NoError(t, err)

	listing, err := svc.ListForActor(actor.ID)
	require.NoError(t, err)

	require.Len(t, listing.Posts, 1)
	assert.Equal(t, post.ID, listing.Posts[0].ID)
	assert.Equal(t, author.ID, listing.Posts[0].User.ID)
	require.Len(t, listing.Users, 1)
	assert.Equal(t, author.ID, listing.Users[0].ID)
}

func TestListForActor_EmptyIsNeverNil(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")

	listing, err := svc.ListForActor(actor.ID)
	require.NoError(t, err)
	assert.NotNil(t, listing.Posts)
	assert.NotNil(t, listing.Users)
	assert.Empty(t, listing.Posts)
	assert.Empty(t, listing.Users)
}

func TestListForActor_DropsDanglingTargets(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	author := createUser(t, "bob")
	post := createPost(t, author, "hello")

	_, err := svc.Create(actor.ID, PostTarget(post.ID))
	require.NoError(t, err)

	// Target deleted out from under the favorite
	require.NoError(t, testDB.Delete(&post).Error)

	listing, err := svc.ListForActor(actor.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Posts)
}

func TestFavoritersOf_ReturnsDistinctUsers(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	author := createUser(t, "alice")
	f1 := createUser(t, "bob")
	f2 := createUser(t, "carol")
	createUser(t, "dave") // not a follower

	_, err := svc.Create(f1.ID, UserTarget(author.ID))
	require.NoError(t, err)
	_, err = svc.Create(f2.ID, UserTarget(author.ID))
	require.NoError(t, err)

	users, err := svc.FavoritersOf(UserTarget(author.ID))
	require.NoError(t, err)

	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []int{f1.ID, f2.ID}, ids)
}

func TestDeleteForTarget_CascadesFavorites(t *testing.T) {
	resetTables(t)
	svc := NewService(testDB)

	actor := createUser(t, "alice")
	author := createUser(t, "bob")
	post := createPost(t, author, "hello")

	_, err := svc.Create(actor.ID, PostTarget(post.ID))
	require.NoError(t, err)

	err = testDB.Transaction(func(tx *gorm.DB) error {
		if err := DeleteForTarget(tx, PostTarget(post.ID)); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	require.NoError(t, err)

	var count int64
	testDB.Model(&models.Favorite{}).Count(&count)
	assert.Zero(t, count)
}
