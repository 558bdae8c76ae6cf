package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const outboxColumns = "id, user_id, type, title, message, data_json, created_at, sent_at"

// EnqueueNotification writes one outbox row for later best-effort delivery.
func (s *Store) EnqueueNotification(ctx context.Context, n *Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	n.CreatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO notifications_outbox (
            user_id, type, title, message, data_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID,
		n.Type,
		n.Title,
		n.Message,
		nullableString(n.DataJSON),
		n.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		n.ID = id
	}
	return nil
}

// PendingNotifications returns unsent outbox rows oldest-first.
func (s *Store) PendingNotifications(ctx context.Context, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+outboxColumns+` FROM notifications_outbox WHERE sent_at IS NULL ORDER BY id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pending notifications: %w", err)
	}
	defer rows.Close()

	var pending []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, n)
	}
	return pending, rows.Err()
}

// MarkNotificationSent stamps an outbox row as delivered.
func (s *Store) MarkNotificationSent(ctx context.Context, id int64) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE notifications_outbox SET sent_at = ? WHERE id = ? AND sent_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// NotificationsByUser returns a user's outbox rows newest-first.
func (s *Store) NotificationsByUser(ctx context.Context, userID int64) ([]*Notification, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+outboxColumns+` FROM notifications_outbox WHERE user_id = ? ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("notifications by user: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func scanNotification(scanner interface{ Scan(dest ...any) error }) (*Notification, error) {
	var (
		id         int64
		userID     int64
		notifType  string
		title      string
		message    string
		data       sql.NullString
		createdRaw sql.NullString
		sentRaw    sql.NullString
	)

	if err := scanner.Scan(&id, &userID, &notifType, &title, &message, &data, &createdRaw, &sentRaw); err != nil {
		return nil, err
	}

	n := &Notification{
		ID:       id,
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		DataJSON: data.String,
		SentAt:   timePtrFromNull(sentRaw),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		n.CreatedAt = created
	}
	return n, nil
}
