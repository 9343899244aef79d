package repository

import (
	"context"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateTx appends a chat message inside the operation's transaction.
// SenderLevel must already be the post-mutation level.
func (r *ChatRepository) CreateTx(ctx context.Context, tx pgx.Tx, m *domain.ChatMessage) error {
	var text, giftID, giftSendID interface{}
	if m.Text != "" {
		text = m.Text
	}
	if m.GiftID != 0 {
		giftID = m.GiftID
	}
	if m.GiftSendID != 0 {
		giftSendID = m.GiftSendID
	}

	return tx.QueryRow(ctx, `
		INSERT INTO chat_messages (stream_id, user_id, type, text, gift_id, gift_send_id, sender_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, m.StreamID, m.UserID, m.Type, text, giftID, giftSendID, m.SenderLevel).Scan(&m.ID, &m.CreatedAt)
}

// ListByStream returns the chat history in commit order: created_at with
// the insertion id as tie-break.
func (r *ChatRepository) ListByStream(ctx context.Context, streamID int64, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.db.Query(ctx, `
		SELECT cm.id, cm.stream_id, cm.user_id, cm.type,
		       COALESCE(cm.text, ''), COALESCE(cm.gift_id, 0), COALESCE(cm.gift_send_id, 0),
		       cm.sender_level, cm.created_at,
		       u.display_name, COALESCE(u.avatar_url, '')
		FROM chat_messages cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.stream_id = $1
		ORDER BY cm.created_at ASC, cm.id ASC
		LIMIT $2
	`, streamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.StreamID, &m.UserID, &m.Type,
			&m.Text, &m.GiftID, &m.GiftSendID,
			&m.SenderLevel, &m.CreatedAt,
			&m.SenderName, &m.AvatarURL); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}
