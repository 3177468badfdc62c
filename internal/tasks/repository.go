// Package tasks creates reminder-style calendar placeholders referencing
// leads. The calendar UI that displays them is outside this service.
package tasks

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate = "tasks.repository.create"

	errRepoNotConfigured = "tasks repository not configured"
)

// Task is a reminder placeholder on the business calendar.
type Task struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	LeadID      uuid.UUID
	Title       string
	Description string
	DueAt       time.Time
	CreatedAt   time.Time
}

// CreateParams carries one reminder task.
type CreateParams struct {
	BusinessID  uuid.UUID
	LeadID      uuid.UUID
	Title       string
	Description string
	DueAt       time.Time
}

// Creator creates reminder tasks.
type Creator interface {
	Create(ctx context.Context, params CreateParams) (Task, error)
}

// Repository provides pgx-backed task access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tasks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Task, error) {
	if r == nil || r.pool == nil {
		return Task{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.BusinessID == uuid.Nil || p.LeadID == uuid.Nil {
		return Task{}, apperr.Validation("businessId and leadId are required").WithOp(opCreate)
	}

	var t Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (business_id, lead_id, title, description, due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, business_id, lead_id, title, description, due_at, created_at
	`, p.BusinessID, p.LeadID, p.Title, p.Description, p.DueAt).Scan(
		&t.ID, &t.BusinessID, &t.LeadID, &t.Title, &t.Description, &t.DueAt, &t.CreatedAt,
	)
	if err != nil {
		return Task{}, apperr.Internal(fmt.Sprintf("create task failed: %v", err)).WithOp(opCreate)
	}

	return t, nil
}
