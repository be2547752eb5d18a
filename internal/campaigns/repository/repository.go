// Package repository provides database operations for campaigns.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a campaign does not exist.
var ErrNotFound = errors.New("campaign not found")

// Repository provides database operations for campaigns.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Campaign is a client sales campaign with a daily lead quota. Timezone is an
// IANA zone name; quota day windows are computed in this zone, not the
// server's.
type Campaign struct {
	ID           uuid.UUID
	Name         string
	ClientName   string
	LeadsTarget  int
	Timezone     string
	Active       bool
	TeamID       *uuid.UUID
	QCReviewerID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	Name         string
	ClientName   string
	LeadsTarget  int
	Timezone     string
	TeamID       *uuid.UUID
	QCReviewerID *uuid.UUID
}

type UpdateParams struct {
	Name         *string
	ClientName   *string
	LeadsTarget  *int
	Timezone     *string
	Active       *bool
	TeamID       *uuid.UUID
	QCReviewerID *uuid.UUID
}

const campaignColumns = `
	id, name, client_name, leads_target, timezone, active,
	team_id, qc_reviewer_id, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.ClientName, &c.LeadsTarget, &c.Timezone, &c.Active,
		&c.TeamID, &c.QCReviewerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Campaign, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, client_name, leads_target, timezone, team_id, qc_reviewer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+campaignColumns,
		params.Name, params.ClientName, params.LeadsTarget, params.Timezone,
		params.TeamID, params.QCReviewerID,
	)
	return scanCampaign(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	return scanCampaign(row)
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Campaign, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE campaigns
		SET name = COALESCE($2, name),
			client_name = COALESCE($3, client_name),
			leads_target = COALESCE($4, leads_target),
			timezone = COALESCE($5, timezone),
			active = COALESCE($6, active),
			team_id = COALESCE($7, team_id),
			qc_reviewer_id = COALESCE($8, qc_reviewer_id),
			updated_at = now()
		WHERE id = $1
		RETURNING `+campaignColumns,
		id, params.Name, params.ClientName, params.LeadsTarget, params.Timezone,
		params.Active, params.TeamID, params.QCReviewerID,
	)
	return scanCampaign(row)
}

// ExistsActive reports whether the campaign exists and is accepting leads.
func (r *Repository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1 AND active)`, id,
	).Scan(&exists)
	return exists, err
}
