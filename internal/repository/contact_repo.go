package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresContactRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresContactRepository(db *sql.DB, logger *logrus.Logger) domain.ContactRepository {
	return &postgresContactRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresContactRepository) CreateMessage(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
        INSERT INTO contact_messages (name, email, message, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Message, msg.CreatedAt).Scan(&msg.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to store contact message from %s: %v", msg.Email, err)
		return fmt.Errorf("could not store contact message: %w", err)
	}

	r.log.Infof("Repository: Contact message %d stored from %s", msg.ID, msg.Email)
	return nil
}

func (r *postgresContactRepository) ListMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	query := `
        SELECT id, name, email, message, created_at
        FROM contact_messages
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list contact messages: %v", err)
		return nil, fmt.Errorf("could not retrieve contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt); err != nil {
			r.log.Errorf("Repository: Failed to scan contact message row: %v", err)
			return nil, fmt.Errorf("error scanning contact message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact messages: %w", err)
	}

	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}
	return msgs, nil
}
