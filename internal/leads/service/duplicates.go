package service

import (
	"context"
	"sync"

	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/platform/apperr"
	"qc_portal_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// batchCheckParallelism bounds concurrent duplicate probes during queue annotation.
const batchCheckParallelism = 8

// DuplicateChecker finds existing leads in the corpus that collide with a
// lead's phone or address. Single-lead checks consult phone and address;
// the batch path checks phones only, mirroring the queue annotation behavior.
type DuplicateChecker struct {
	repo repository.DuplicateFinder
	log  *logger.Logger
}

func NewDuplicateChecker(repo repository.DuplicateFinder, log *logger.Logger) *DuplicateChecker {
	return &DuplicateChecker{repo: repo, log: log}
}

// CheckOne returns every non-self match for the lead's phone and address.
// An empty slice means no conflict. A storage failure surfaces as
// "unable to verify" rather than a false all-clear.
func (c *DuplicateChecker) CheckOne(ctx context.Context, lead repository.Lead) ([]repository.DuplicateMatch, error) {
	matches, err := c.repo.FindMatches(ctx, repository.MatchQuery{
		PhoneKey:   lead.PhoneKey,
		AddressKey: lead.AddressKey,
		ExcludeID:  lead.ID,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "unable to verify duplicates", err)
	}

	// The exclusion also happens in SQL; filter again so a self-match from
	// upstream can never reach a caller.
	filtered := matches[:0]
	for _, m := range matches {
		if m.LeadID != lead.ID {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// CheckBatch probes each lead's phone for non-self matches and returns the set
// of phone keys that collide. Annotation is best-effort: a failed probe is
// logged and that lead is left out of the set, the queue load never aborts.
func (c *DuplicateChecker) CheckBatch(ctx context.Context, leads []repository.Lead) map[string]struct{} {
	flagged := make(map[string]struct{})
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchCheckParallelism)

	for _, lead := range leads {
		lead := lead
		if lead.PhoneKey == "" {
			continue
		}
		g.Go(func() error {
			matched, err := c.repo.HasPhoneMatch(gctx, lead.PhoneKey, lead.ID)
			if err != nil {
				c.log.DuplicateCheckFailed(lead.ID.String(), err)
				return nil
			}
			if matched {
				mu.Lock()
				flagged[lead.PhoneKey] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return flagged
}
