package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/emilythestrangee/favorly/backend/internal/models"
)

// Sender delivers a single notification task.
type Sender interface {
	Send(ctx context.Context, task Task) error
}

// StoreSender persists the notification so the recipient can fetch it from
// the API. This is the default delivery channel.
type StoreSender struct {
	db *gorm.DB
}

func NewStoreSender(db *gorm.DB) *StoreSender {
	return &StoreSender{db: db}
}

func (s *StoreSender) Send(ctx context.Context, task Task) error {
	notification := models.Notification{
		UserID:     task.RecipientID,
		PostID:     task.PostID,
		PostTitle:  task.PostTitle,
		AuthorID:   task.AuthorID,
		AuthorName: task.AuthorName,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}
	return nil
}

// SMSSender delivers notifications over Twilio SMS. Recipients without a
// phone number are skipped, not failed.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(accountSID, authToken, from string) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{client: client, from: from}
}

func (s *SMSSender) Send(ctx context.Context, task Task) error {
	if task.RecipientPhone == "" {
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(task.RecipientPhone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("%s published a new post: %s", task.AuthorName, task.PostTitle))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending SMS to user %d: %w", task.RecipientID, err)
	}
	return nil
}

// MultiSender fans a task out to several delivery channels. A failing
// channel does not stop the others.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, task Task) error {
	var firstErr error
	for _, sender := range m {
		if err := sender.Send(ctx, task); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
