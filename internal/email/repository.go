package email

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opGetTemplate = "email.repository.get_template"
	opCreateLog   = "email.repository.create_log"

	errRepoNotConfigured = "email repository not configured"
)

// TemplateStore resolves templates and records delivery logs.
type TemplateStore interface {
	GetTemplate(ctx context.Context, businessID uuid.UUID, templateType string, triggerEvent *string) (*Template, error)
	CreateLog(ctx context.Context, params CreateLogParams) error
}

// Repository provides pgx-backed template and delivery-log access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetTemplate returns the most specific active template for the type: an
// exact trigger_event match wins over a type-only template. A missing
// template is (nil, nil), never an error.
func (r *Repository) GetTemplate(ctx context.Context, businessID uuid.UUID, templateType string, triggerEvent *string) (*Template, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opGetTemplate)
	}

	if triggerEvent != nil && *triggerEvent != "" {
		tmpl, err := r.queryTemplate(ctx, `
			SELECT id, business_id, type, trigger_event, subject, body, variables, is_active, created_at, updated_at
			FROM email_templates
			WHERE business_id = $1 AND type = $2 AND trigger_event = $3 AND is_active = TRUE
			ORDER BY updated_at DESC
			LIMIT 1
		`, businessID, templateType, *triggerEvent)
		if err != nil {
			return nil, err
		}
		if tmpl != nil {
			return tmpl, nil
		}
	}

	return r.queryTemplate(ctx, `
		SELECT id, business_id, type, trigger_event, subject, body, variables, is_active, created_at, updated_at
		FROM email_templates
		WHERE business_id = $1 AND type = $2 AND trigger_event IS NULL AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`, businessID, templateType)
}

func (r *Repository) queryTemplate(ctx context.Context, query string, args ...any) (*Template, error) {
	var t Template
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.BusinessID, &t.Type, &t.TriggerEvent, &t.Subject, &t.Body,
		&t.Variables, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal(fmt.Sprintf("get template failed: %v", err)).WithOp(opGetTemplate)
	}

	return &t, nil
}

func (r *Repository) CreateLog(ctx context.Context, p CreateLogParams) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opCreateLog)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO email_logs (business_id, template_id, recipient, subject, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.BusinessID, p.TemplateID, p.Recipient, p.Subject, p.Status, p.Error)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("create email log failed: %v", err)).WithOp(opCreateLog)
	}

	return nil
}
