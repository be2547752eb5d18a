package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read-only data access for report aggregation.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LeadFacts returns the aggregation projection for leads created in [start, end).
func (r *Repository) LeadFacts(ctx context.Context, start, end time.Time) ([]LeadFact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, agent_id, status, override_qualified, created_at
		FROM leads
		WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []LeadFact
	for rows.Next() {
		var f LeadFact
		if err := rows.Scan(&f.LeadID, &f.CampaignID, &f.AgentID, &f.Status, &f.OverrideQualified, &f.CreatedAt); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// CampaignInfos returns every campaign's aggregation projection, active or not.
// The aggregator skips inactive campaigns itself.
func (r *Repository) CampaignInfos(ctx context.Context) ([]CampaignInfo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, leads_target, timezone, active
		FROM campaigns
		ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []CampaignInfo
	for rows.Next() {
		var c CampaignInfo
		if err := rows.Scan(&c.ID, &c.Name, &c.LeadsTarget, &c.Timezone, &c.Active); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// AgentNames maps agent IDs to display names for the leaderboard.
func (r *Repository) AgentNames(ctx context.Context) (map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, full_name FROM agents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
