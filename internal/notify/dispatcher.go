package notify

import (
	"context"
	"log"
	"time"

	"github.com/emilythestrangee/favorly/backend/internal/favorites"
	"github.com/emilythestrangee/favorly/backend/internal/models"
)

const (
	defaultQueueSize = 256
	maxAttempts      = 3
	retryBackoff     = 200 * time.Millisecond
)

// FollowerSource resolves the users who favorited a given target.
type FollowerSource interface {
	FavoritersOf(target favorites.Target) ([]models.User, error)
}

// Dispatcher owns the post-created queue and the worker that drains it.
// Enqueueing never blocks the HTTP request; delivery failures are retried
// and then logged, never propagated back to the caller.
type Dispatcher struct {
	events    chan models.Post
	followers FollowerSource
	sender    Sender
}

func NewDispatcher(followers FollowerSource, sender Sender) *Dispatcher {
	return &Dispatcher{
		events:    make(chan models.Post, defaultQueueSize),
		followers: followers,
		sender:    sender,
	}
}

// PostCreated enqueues a fan-out for a freshly committed post. The post
// must carry its author (User preloaded). If the queue is full the event
// is dropped with a logged error rather than stalling the request.
func (d *Dispatcher) PostCreated(post models.Post) {
	select {
	case d.events <- post:
	default:
		log.Printf("notify: queue full, dropping fan-out for post %d", post.ID)
	}
}

// Run consumes the queue until ctx is cancelled. Intended to run in its
// own goroutine next to the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case post := <-d.events:
			d.fanOut(ctx, post)
		}
	}
}

func (d *Dispatcher) fanOut(ctx context.Context, post models.Post) {
	followers, err := d.followers.FavoritersOf(favorites.UserTarget(post.UserID))
	if err != nil {
		log.Printf("notify: resolving followers of user %d: %v", post.UserID, err)
		return
	}

	tasks := FanOut(post, post.User, followers)
	if len(tasks) == 0 {
		return
	}

	delivered := 0
	for _, task := range tasks {
		if err := d.deliver(ctx, task); err != nil {
			log.Printf("notify: giving up on recipient %d for post %d: %v", task.RecipientID, task.PostID, err)
			continue
		}
		delivered++
	}
	log.Printf("notify: post %d fanned out to %d/%d followers", post.ID, delivered, len(tasks))
}

func (d *Dispatcher) deliver(ctx context.Context, task Task) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = d.sender.Send(ctx, task); err == nil {
			return nil
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
	}
	return err
}
