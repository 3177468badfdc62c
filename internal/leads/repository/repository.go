package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opGetByID        = "leads.repository.get_by_id"
	opCreate         = "leads.repository.create"
	opUpdateStatus   = "leads.repository.update_status"
	opMarkContacted  = "leads.repository.mark_contacted"
	opListCandidates = "leads.repository.list_followup_candidates"
	opGetSettings    = "leads.repository.get_business_settings"
	opListMembers    = "leads.repository.list_members"

	errRepoNotConfigured = "leads repository not configured"
)

const leadColumns = `
	id, business_id, name, email, phone, service_type, location, message,
	status, priority, tags, score, qualification_notes,
	created_at, last_contacted_at, updated_at`

// Repository provides pgx-backed lead data access.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id, businessID uuid.UUID) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}
	if id == uuid.Nil || businessID == uuid.Nil {
		return Lead{}, apperr.Validation("id and businessId are required").WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND business_id = $2
	`, id, businessID)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opGetByID)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("get lead failed: %v", err)).WithOp(opGetByID)
	}

	return lead, nil
}

func (r *Repository) Create(ctx context.Context, p CreateLeadParams) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.BusinessID == uuid.Nil {
		return Lead{}, apperr.Validation("businessId is required").WithOp(opCreate)
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads
			(business_id, name, email, phone, service_type, location, message,
			 status, priority, tags, score, qualification_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+leadColumns+`
	`, p.BusinessID, p.Name, p.Email, p.Phone, p.ServiceType, p.Location,
		p.Message, StatusNew, p.Priority, tags, p.Score, p.QualificationNotes)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, apperr.Internal(fmt.Sprintf("create lead failed: %v", err)).WithOp(opCreate)
	}

	return lead, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opUpdateStatus)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, updated_at = now()
		WHERE id = $1 AND business_id = $2
		RETURNING `+leadColumns+`
	`, id, businessID, status)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opUpdateStatus)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("update lead status failed: %v", err)).WithOp(opUpdateStatus)
	}

	return lead, nil
}

func (r *Repository) MarkContacted(ctx context.Context, id, businessID uuid.UUID, at time.Time) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkContacted)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET last_contacted_at = $3, updated_at = now()
		WHERE id = $1 AND business_id = $2
	`, id, businessID, at)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark lead contacted failed: %v", err)).WithOp(opMarkContacted)
	}

	return nil
}

// ListFollowupCandidates returns leads whose status and priority fall inside
// the given sets and whose last contact (or creation, when never contacted)
// is at or before the cutoff.
func (r *Repository) ListFollowupCandidates(ctx context.Context, businessID uuid.UUID, statuses, priorities []string, contactedBefore time.Time) ([]Lead, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListCandidates)
	}
	if businessID == uuid.Nil {
		return nil, apperr.Validation("businessId is required").WithOp(opListCandidates)
	}
	if len(statuses) == 0 || len(priorities) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE business_id = $1
		  AND status = ANY($2)
		  AND priority = ANY($3)
		  AND COALESCE(last_contacted_at, created_at) <= $4
		ORDER BY created_at ASC
	`, businessID, statuses, priorities, contactedBefore)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list followup candidates failed: %v", err)).WithOp(opListCandidates)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, scanErr := scanLead(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan followup candidate failed: %v", scanErr)).WithOp(opListCandidates)
		}
		leads = append(leads, lead)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate followup candidates failed: %v", rowsErr)).WithOp(opListCandidates)
	}

	return leads, nil
}

// GetBusinessSettings returns the business's qualification settings.
// A business without a settings row gets empty settings, not an error.
func (r *Repository) GetBusinessSettings(ctx context.Context, businessID uuid.UUID) (BusinessSettings, error) {
	if r == nil || r.pool == nil {
		return BusinessSettings{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetSettings)
	}

	var s BusinessSettings
	err := r.pool.QueryRow(ctx, `
		SELECT business_id, service_area, location, preferred_services, blacklisted_keywords
		FROM business_settings
		WHERE business_id = $1
	`, businessID).Scan(&s.BusinessID, &s.ServiceArea, &s.Location, &s.PreferredServices, &s.BlacklistedKeywords)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BusinessSettings{BusinessID: businessID}, nil
		}
		return BusinessSettings{}, apperr.Internal(fmt.Sprintf("get business settings failed: %v", err)).WithOp(opGetSettings)
	}

	return s, nil
}

func (r *Repository) ListMembers(ctx context.Context, businessID uuid.UUID) ([]Member, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListMembers)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id, name, email
		FROM business_members
		WHERE business_id = $1
		ORDER BY name ASC
	`, businessID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list members failed: %v", err)).WithOp(opListMembers)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if scanErr := rows.Scan(&m.UserID, &m.Name, &m.Email); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan member failed: %v", scanErr)).WithOp(opListMembers)
		}
		members = append(members, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate members failed: %v", rowsErr)).WithOp(opListMembers)
	}

	return members, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.BusinessID, &l.Name, &l.Email, &l.Phone, &l.ServiceType,
		&l.Location, &l.Message, &l.Status, &l.Priority, &l.Tags, &l.Score,
		&l.QualificationNotes, &l.CreatedAt, &l.LastContactedAt, &l.UpdatedAt,
	)
	return l, err
}
