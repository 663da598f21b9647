// Package notify broadcasts a created post to the followers of its author.
// The HTTP handler enqueues an event after the post row is committed; a
// worker loop resolves followers and delivers one notification per follower,
// decoupled from the request cycle.
package notify

import "github.com/emilythestrangee/favorly/backend/internal/models"

// Task is one outbound notification: a recipient plus a reference to the
// created post. The post travels by id, with the title carried only for
// display.
type Task struct {
	RecipientID    int
	RecipientPhone string
	PostID         int
	PostTitle      string
	AuthorID       int
	AuthorName     string
}

// FanOut builds one task per follower of the post's author. The author
// never receives a notification about their own post, recipients are
// de-duplicated, and rows that did not resolve to a user are skipped.
func FanOut(post models.Post, author models.User, followers []models.User) []Task {
	tasks := make([]Task, 0, len(followers))
	seen := make(map[int]bool, len(followers))

	for _, follower := range followers {
		if follower.ID == 0 || follower.ID == author.ID || seen[follower.ID] {
			continue
		}
		seen[follower.ID] = true

		tasks = append(tasks, Task{
			RecipientID:    follower.ID,
			RecipientPhone: follower.Phone,
			PostID:         post.ID,
			PostTitle:      post.Title,
			AuthorID:       author.ID,
			AuthorName:     author.Name,
		})
	}

	return tasks
}
