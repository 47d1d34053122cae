package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.ContactUseCase = (*contactUseCase)(nil)

type contactUseCase struct {
	contactRepo domain.ContactRepository
	log         *logrus.Logger
}

func NewContactUseCase(repo domain.ContactRepository, logger *logrus.Logger) domain.ContactUseCase {
	return &contactUseCase{
		contactRepo: repo,
		log:         logger,
	}
}

func (uc *contactUseCase) SubmitMessage(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	var messages []string
	if msg.Name == "" {
		messages = append(messages, "name: cannot be empty")
	}
	if msg.Email == "" || !strings.Contains(msg.Email, "@") {
		messages = append(messages, "email: must be a valid email address")
	}
	if msg.Message == "" {
		messages = append(messages, "message: cannot be empty")
	}
	if len(messages) > 0 {
		return nil, &domain.ValidationError{Messages: messages}
	}

	msg.CreatedAt = time.Now().UTC()
	if err := uc.contactRepo.CreateMessage(ctx, msg); err != nil {
		uc.log.Errorf("Use Case: Repository failed to store contact message from %s: %v", msg.Email, err)
		return nil, fmt.Errorf("could not store contact message: %w", err)
	}

	uc.log.Infof("Use Case: Contact message %d stored from %s", msg.ID, msg.Email)
	return msg, nil
}

func (uc *contactUseCase) ListMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := uc.contactRepo.ListMessages(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list contact messages: %v", err)
		return nil, fmt.Errorf("could not retrieve contact messages: %w", err)
	}
	return msgs, nil
}
