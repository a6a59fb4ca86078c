// Package ingest persists normalized provider leads into a campaign,
// deduplicating by natural key.
package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/store"
)

// Engine writes provider leads into the store, skipping duplicates.
type Engine struct {
	store store.Store
	log   *zap.Logger
}

// New creates an ingestion engine. A nil logger falls back to a no-op logger.
func New(st store.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, log: log}
}

// Ingest persists the given leads for a campaign and returns the number of
// rows actually created. Duplicates by (campaign, address, zip) are skipped:
// the existence pre-check avoids most redundant inserts, and the store's
// unique constraint catches the rest when concurrent pulls race past it.
// ErrDuplicateLead from the store is an expected outcome, not a failure.
func (e *Engine) Ingest(ctx context.Context, campaignID int64, leads []model.ProviderLead) (int, error) {
	created := 0
	for i := range leads {
		pl := &leads[i]

		address := ""
		if pl.Address != nil {
			address = strings.TrimSpace(*pl.Address)
		}
		if address == "" {
			// Junk record without an address: nothing to key on.
			continue
		}
		zip := ""
		if pl.ZipCode != nil {
			zip = strings.TrimSpace(*pl.ZipCode)
		}

		exists, err := e.store.LeadExists(ctx, campaignID, address, zip)
		if err != nil {
			return created, eris.Wrap(err, "ingest: existence check")
		}
		if exists {
			continue
		}

		lead := model.Lead{
			CampaignID: campaignID,
			Address:    address,
			ZipCode:    zip,
			Status:     model.LeadStatusNew,
		}
		if pl.City != nil {
			lead.City = strings.TrimSpace(*pl.City)
		}
		if pl.State != nil {
			lead.State = strings.TrimSpace(*pl.State)
		}
		if pl.OwnerName != nil {
			lead.OwnerName = strings.TrimSpace(*pl.OwnerName)
		}
		if pl.Phone != nil {
			lead.Phone = strings.TrimSpace(*pl.Phone)
		}

		if err := e.store.CreateLead(ctx, &lead); err != nil {
			if eris.Is(err, store.ErrDuplicateLead) {
				e.log.Debug("ingest: concurrent duplicate skipped",
					zap.Int64("campaign_id", campaignID),
					zap.String("address", address),
					zap.String("zip", zip),
				)
				continue
			}
			return created, eris.Wrap(err, "ingest: create lead")
		}
		created++
	}

	e.log.Info("ingest: batch complete",
		zap.Int64("campaign_id", campaignID),
		zap.Int("received", len(leads)),
		zap.Int("created", created),
	)
	return created, nil
}
