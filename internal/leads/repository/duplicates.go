package repository

import (
	"context"
	"time"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// DuplicateMatch is a read-only projection of an existing lead that shares a
// phone or address with the lead under review.
type DuplicateMatch struct {
	LeadID        uuid.UUID
	SerialNumber  int64
	HomeownerName string
	MatchType     string // "phone" or "address"
	Status        domain.Status
	CreatedAt     time.Time
}

type MatchQuery struct {
	PhoneKey   string
	AddressKey string
	ExcludeID  uuid.UUID
}

// FindMatches returns leads in the corpus whose phone or address key equals
// the queried keys. The queried lead itself is excluded in SQL; the service
// layer filters again in case upstream data ever slips through.
func (r *Repository) FindMatches(ctx context.Context, q MatchQuery) ([]DuplicateMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, serial_number, homeowner_first_name || ' ' || homeowner_last_name,
			CASE WHEN phone_key = $1 AND $1 <> '' THEN 'phone' ELSE 'address' END,
			status, created_at
		FROM leads
		WHERE id <> $3
			AND ((phone_key = $1 AND $1 <> '') OR (address_key = $2 AND $2 <> ''))
		ORDER BY created_at DESC
	`, q.PhoneKey, q.AddressKey, q.ExcludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]DuplicateMatch, 0)
	for rows.Next() {
		var m DuplicateMatch
		if err := rows.Scan(&m.LeadID, &m.SerialNumber, &m.HomeownerName, &m.MatchType, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// HasPhoneMatch reports whether any other lead shares the phone key.
// Used by the batch annotation path, which checks phones only.
func (r *Repository) HasPhoneMatch(ctx context.Context, phoneKey string, excludeID uuid.UUID) (bool, error) {
	if phoneKey == "" {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM leads WHERE phone_key = $1 AND id <> $2)
	`, phoneKey, excludeID).Scan(&exists)
	return exists, err
}
