package service

import (
	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/transport"
)

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                lead.ID,
		SerialNumber:      lead.SerialNumber,
		FirstName:         lead.HomeownerFirstName,
		LastName:          lead.HomeownerLastName,
		Phone:             lead.Phone,
		Email:             lead.Email,
		Address:           lead.Address,
		Status:            lead.Status,
		OverrideQualified: lead.OverrideQualified,
		OverrideReason:    lead.OverrideReason,
		QCComment:         lead.QCComment,
		CampaignID:        lead.CampaignID,
		AgentID:           lead.AgentID,
		TeamID:            lead.TeamID,
		QCReviewerID:      lead.QCReviewerID,
		RecordingURL:      lead.RecordingURL,
		CreatedAt:         lead.CreatedAt,
		DisposedAt:        lead.DisposedAt,
	}
}

func toDuplicateMatchResponse(m repository.DuplicateMatch) transport.DuplicateMatchResponse {
	return transport.DuplicateMatchResponse{
		LeadID:        m.LeadID,
		SerialNumber:  m.SerialNumber,
		HomeownerName: m.HomeownerName,
		MatchType:     m.MatchType,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}
