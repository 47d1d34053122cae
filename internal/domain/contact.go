package domain

import (
	"context"
	"time"
)

type ContactMessage struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContactRepository interface {
	CreateMessage(ctx context.Context, msg *ContactMessage) error
	ListMessages(ctx context.Context, limit, offset int) ([]ContactMessage, error)
}

type ContactUseCase interface {
	SubmitMessage(ctx context.Context, msg *ContactMessage) (*ContactMessage, error)
	ListMessages(ctx context.Context, limit, offset int) ([]ContactMessage, error)
}
