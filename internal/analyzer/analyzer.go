// Package analyzer computes campaign-level contactability metrics over
// ingested leads.
package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/store"
)

// LeadScore is a contactability score for a single lead with the reasons that
// produced it.
type LeadScore struct {
	LeadID   int64             `json:"lead_id"`
	Score    int               `json:"score"`
	Reasons  []string          `json:"reasons"`
	Metadata map[string]string `json:"metadata"`
}

// Summary aggregates contactability over a campaign.
type Summary struct {
	CampaignID        int64 `json:"campaign_id"`
	TotalLeads        int   `json:"total_leads"`
	LeadsWithPhone    int   `json:"leads_with_phone"`
	LeadsMissingPhone int   `json:"leads_missing_phone"`
	LeadsWithOwner    int   `json:"leads_with_owner"`
	LeadsMissingOwner int   `json:"leads_missing_owner"`
	DistinctZipCodes  int   `json:"distinct_zip_codes"`
}

// ZipRow is one zip code's slice of a campaign. ZipCode is nil for leads
// whose zip is unknown.
type ZipRow struct {
	ZipCode           *string `json:"zip_code"`
	TotalLeads        int     `json:"total_leads"`
	LeadsWithPhone    int     `json:"leads_with_phone"`
	LeadsMissingPhone int     `json:"leads_missing_phone"`
	LeadsWithOwner    int     `json:"leads_with_owner"`
	LeadsMissingOwner int     `json:"leads_missing_owner"`
}

// ZipBreakdown groups a campaign's leads by zip code.
type ZipBreakdown struct {
	CampaignID int64    `json:"campaign_id"`
	Rows       []ZipRow `json:"rows"`
}

// Analyzer reads leads from the store and computes metrics.
type Analyzer struct {
	store store.Store
}

// New creates an Analyzer.
func New(st store.Store) *Analyzer {
	return &Analyzer{store: st}
}

func truthy(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ScoreLead computes a contactability heuristic: phone is worth the most,
// then owner name, address, and zip. Clamped to [0, 100].
func ScoreLead(lead *model.Lead) LeadScore {
	score := 0
	var reasons []string
	meta := make(map[string]string)

	if truthy(lead.Phone) {
		score += 40
		reasons = append(reasons, "Has phone")
	} else {
		reasons = append(reasons, "Missing phone")
	}
	if truthy(lead.OwnerName) {
		score += 20
		reasons = append(reasons, "Has owner name")
	} else {
		reasons = append(reasons, "Missing owner name")
	}
	if truthy(lead.Address) {
		score += 10
		reasons = append(reasons, "Has address")
	} else {
		reasons = append(reasons, "Missing address")
	}
	if truthy(lead.ZipCode) {
		score += 5
		reasons = append(reasons, "Has ZIP")
		meta["zip"] = strings.TrimSpace(lead.ZipCode)
	} else {
		reasons = append(reasons, "Missing ZIP")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return LeadScore{LeadID: lead.ID, Score: score, Reasons: reasons, Metadata: meta}
}

// CampaignSummary aggregates contactability counts for a campaign.
func (a *Analyzer) CampaignSummary(ctx context.Context, campaignID int64) (*Summary, error) {
	leads, err := a.store.ListLeads(ctx, campaignID)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: list leads")
	}

	s := &Summary{CampaignID: campaignID, TotalLeads: len(leads)}
	zips := make(map[string]bool)
	for i := range leads {
		if truthy(leads[i].Phone) {
			s.LeadsWithPhone++
		}
		if truthy(leads[i].OwnerName) {
			s.LeadsWithOwner++
		}
		if truthy(leads[i].ZipCode) {
			zips[strings.TrimSpace(leads[i].ZipCode)] = true
		}
	}
	s.LeadsMissingPhone = s.TotalLeads - s.LeadsWithPhone
	s.LeadsMissingOwner = s.TotalLeads - s.LeadsWithOwner
	s.DistinctZipCodes = len(zips)
	return s, nil
}

// CampaignZipBreakdown groups a campaign's leads by zip code, sorted by zip
// with the unknown bucket last.
func (a *Analyzer) CampaignZipBreakdown(ctx context.Context, campaignID int64) (*ZipBreakdown, error) {
	leads, err := a.store.ListLeads(ctx, campaignID)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: list leads")
	}

	const unknown = "UNKNOWN"
	byZip := make(map[string][]*model.Lead)
	for i := range leads {
		z := strings.TrimSpace(leads[i].ZipCode)
		if z == "" {
			z = unknown
		}
		byZip[z] = append(byZip[z], &leads[i])
	}

	keys := make([]string, 0, len(byZip))
	for z := range byZip {
		keys = append(keys, z)
	}
	sort.Slice(keys, func(i, j int) bool {
		if (keys[i] == unknown) != (keys[j] == unknown) {
			return keys[j] == unknown
		}
		return keys[i] < keys[j]
	})

	out := &ZipBreakdown{CampaignID: campaignID, Rows: make([]ZipRow, 0, len(keys))}
	for _, z := range keys {
		group := byZip[z]
		row := ZipRow{TotalLeads: len(group)}
		if z != unknown {
			zip := z
			row.ZipCode = &zip
		}
		for _, l := range group {
			if truthy(l.Phone) {
				row.LeadsWithPhone++
			}
			if truthy(l.OwnerName) {
				row.LeadsWithOwner++
			}
		}
		row.LeadsMissingPhone = row.TotalLeads - row.LeadsWithPhone
		row.LeadsMissingOwner = row.TotalLeads - row.LeadsWithOwner
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
