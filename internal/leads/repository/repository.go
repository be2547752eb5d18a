package repository

import (
	"context"
	"errors"
	"time"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("lead not found")
	// ErrNotPending is returned when a status update targets a lead that has
	// already been dispositioned. This is the backend state check that makes
	// a repeated apply after success visible instead of a silent no-op.
	ErrNotPending = errors.New("lead is not pending")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                 uuid.UUID
	SerialNumber       int64
	HomeownerFirstName string
	HomeownerLastName  string
	Phone              string
	PhoneKey           string
	Email              *string
	Address            string
	AddressKey         string
	Status             domain.Status
	OverrideQualified  bool
	OverrideReason     *string
	QCComment          *string
	CampaignID         uuid.UUID
	AgentID            uuid.UUID
	TeamID             *uuid.UUID
	QCReviewerID       *uuid.UUID
	RecordingURL       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DisposedAt         *time.Time
}

const leadColumns = `id, serial_number, homeowner_first_name, homeowner_last_name, phone, phone_key, email,
	address, address_key, status, override_qualified, override_reason, qc_comment,
	campaign_id, agent_id, team_id, qc_reviewer_id, recording_url, created_at, updated_at, disposed_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.SerialNumber, &lead.HomeownerFirstName, &lead.HomeownerLastName,
		&lead.Phone, &lead.PhoneKey, &lead.Email,
		&lead.Address, &lead.AddressKey, &lead.Status, &lead.OverrideQualified, &lead.OverrideReason, &lead.QCComment,
		&lead.CampaignID, &lead.AgentID, &lead.TeamID, &lead.QCReviewerID, &lead.RecordingURL,
		&lead.CreatedAt, &lead.UpdatedAt, &lead.DisposedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	HomeownerFirstName string
	HomeownerLastName  string
	Phone              string
	PhoneKey           string
	Email              *string
	Address            string
	AddressKey         string
	CampaignID         uuid.UUID
	AgentID            uuid.UUID
	TeamID             *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			homeowner_first_name, homeowner_last_name, phone, phone_key, email,
			address, address_key, campaign_id, agent_id, team_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		params.HomeownerFirstName, params.HomeownerLastName, params.Phone, params.PhoneKey, params.Email,
		params.Address, params.AddressKey, params.CampaignID, params.AgentID, params.TeamID,
	)

	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListPendingParams struct {
	CampaignID *uuid.UUID
	Offset     int
	Limit      int
}

// ListPending returns leads still awaiting a QC disposition, oldest first,
// together with the total pending count for the same filter.
func (r *Repository) ListPending(ctx context.Context, params ListPendingParams) ([]Lead, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE status = 'Pending' AND ($1::uuid IS NULL OR campaign_id = $1)
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, params.CampaignID, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	var total int
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE status = 'Pending' AND ($1::uuid IS NULL OR campaign_id = $1)
	`, params.CampaignID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

type UpdateStatusParams struct {
	Status            domain.Status
	QCComment         string
	OverrideQualified bool
	OverrideReason    *string
	QCReviewerID      uuid.UUID
	RecordingURL      *string
}

// UpdateStatus commits a disposition. The WHERE status = 'Pending' clause is
// the authoritative state check: a lead already dispositioned yields
// ErrNotPending, a missing lead ErrNotFound.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $2,
			qc_comment = $3,
			override_qualified = $4,
			override_reason = $5,
			qc_reviewer_id = $6,
			recording_url = COALESCE($7, recording_url),
			disposed_at = now(),
			updated_at = now()
		WHERE id = $1 AND status = 'Pending'
		RETURNING `+leadColumns,
		id, params.Status, params.QCComment, params.OverrideQualified, params.OverrideReason,
		params.QCReviewerID, params.RecordingURL,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists); probeErr != nil {
			return Lead{}, probeErr
		}
		if exists {
			return Lead{}, ErrNotPending
		}
		return Lead{}, ErrNotFound
	}
	return lead, err
}

