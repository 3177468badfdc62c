package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.repository.create"
	opListUnread  = "notification.repository.list_unread"
	opMarkRead    = "notification.repository.mark_read"
	opMarkAllRead = "notification.repository.mark_all_read"

	errRepoNotConfigured = "notification repository not configured"
)

// Store persists notifications.
type Store interface {
	Create(ctx context.Context, params CreateParams) (Notification, error)
	ListUnread(ctx context.Context, businessID uuid.UUID, userID *uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, businessID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, businessID, userID uuid.UUID) error
}

// Repository provides pgx-backed notification access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.BusinessID == uuid.Nil || p.UserID == uuid.Nil {
		return Notification{}, apperr.Validation("businessId and userId are required").WithOp(opCreate)
	}
	if p.Title == "" {
		return Notification{}, apperr.Validation("title is required").WithOp(opCreate)
	}

	priority := p.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	var metadataJSON []byte
	if p.Metadata != nil {
		encoded, err := json.Marshal(p.Metadata)
		if err != nil {
			return Notification{}, apperr.Internal(fmt.Sprintf("marshal metadata failed: %v", err)).WithOp(opCreate)
		}
		metadataJSON = encoded
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications
			(business_id, user_id, title, message, type, entity_type, entity_id,
			 priority, status, action_url, scheduled_for, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, business_id, user_id, title, message, type, entity_type, entity_id,
		          priority, status, action_url, scheduled_for, metadata, created_at
	`, p.BusinessID, p.UserID, p.Title, p.Message, p.Type, p.EntityType, p.EntityID,
		priority, StatusUnread, p.ActionURL, p.ScheduledFor, metadataJSON)

	n, err := scanNotification(row)
	if err != nil {
		return Notification{}, apperr.Internal(fmt.Sprintf("create notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

const listUnreadQuery = `
	SELECT id, business_id, user_id, title, message, type, entity_type, entity_id,
	       priority, status, action_url, scheduled_for, metadata, created_at
	FROM notifications
	WHERE business_id = $1
	  AND status = $2
	  AND ($3::uuid IS NULL OR user_id = $3)
	ORDER BY
		CASE priority
			WHEN 'urgent' THEN 0
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			WHEN 'low' THEN 3
			ELSE 4
		END,
		created_at DESC
`

// ListUnread returns unread notifications ordered by priority rank
// (urgent > high > medium > low > unspecified) then recency descending.
// When userID is nil the whole business's unread set is returned.
func (r *Repository) ListUnread(ctx context.Context, businessID uuid.UUID, userID *uuid.UUID) ([]Notification, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListUnread)
	}
	if businessID == uuid.Nil {
		return nil, apperr.Validation("businessId is required").WithOp(opListUnread)
	}

	rows, err := r.pool.Query(ctx, listUnreadQuery, businessID, StatusUnread, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list unread notifications failed: %v", err)).WithOp(opListUnread)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan notification failed: %v", scanErr)).WithOp(opListUnread)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opListUnread)
	}

	return items, nil
}

// MarkRead transitions one notification unread -> read. Already-read rows
// are untouched; the transition is one-way.
func (r *Repository) MarkRead(ctx context.Context, businessID, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $3
		WHERE id = $1 AND business_id = $2 AND status = $4
	`, id, businessID, StatusRead, StatusUnread)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}

	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, businessID, userID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkAllRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $3
		WHERE business_id = $1 AND user_id = $2 AND status = $4
	`, businessID, userID, StatusRead, StatusUnread)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}

	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	var metadataJSON []byte

	err := row.Scan(&n.ID, &n.BusinessID, &n.UserID, &n.Title, &n.Message, &n.Type,
		&n.EntityType, &n.EntityID, &n.Priority, &n.Status, &n.ActionURL,
		&n.ScheduledFor, &metadataJSON, &n.CreatedAt)
	if err != nil {
		return Notification{}, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &n.Metadata); err != nil {
			return Notification{}, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return n, nil
}
