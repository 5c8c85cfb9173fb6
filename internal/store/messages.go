package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// SaveMessage stores a new unread message.
func (s *Store) SaveMessage(ctx context.Context, name, email, body string) (Message, error) {
	m := Message{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, body, created_at, read) VALUES (?, ?, ?, ?, ?, 0)`,
		m.ID, m.Name, m.Email, m.Body, m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("failed to save message: %w", err)
	}
	return m, nil
}

// ListMessages returns messages newest first, optionally only unread ones.
func (s *Store) ListMessages(ctx context.Context, unreadOnly bool) ([]Message, error) {
	query := `SELECT id, name, email, body, created_at, read FROM messages`
	if unreadOnly {
		query += ` WHERE read = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt, &m.Read); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags a message as read.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return expectOne(res)
}

// DeleteMessage removes a message.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	return expectOne(res)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOne(res rowsAffecter) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
