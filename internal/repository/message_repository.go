package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MessageRepository manages complaint thread messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.ComplaintMessage) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintMessage, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.ComplaintMessage) error {
	const query = `
        INSERT INTO complaint_messages (complaint_id, sender_id, text, is_internal)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.ComplaintID,
		message.SenderID,
		message.Text,
		message.IsInternal,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintMessage, error) {
	const query = `
        SELECT id, complaint_id, sender_id, text, is_internal, created_at
        FROM complaint_messages WHERE complaint_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ComplaintMessage, 0)
	for rows.Next() {
		var m domain.ComplaintMessage
		if err := rows.Scan(&m.ID, &m.ComplaintID, &m.SenderID, &m.Text, &m.IsInternal, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
