package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/config"
	"github.com/passivepilot/leadgen-cli/internal/fetcher"
	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/normalize"
)

// Repliers pulls listing records from the Repliers API.
type Repliers struct {
	creds  config.ProviderCreds
	client *fetcher.Client
	norm   *normalize.Normalizer
	log    *zap.Logger
}

// NewRepliers creates the Repliers provider. A nil logger falls back to a
// no-op logger.
func NewRepliers(creds config.ProviderCreds, client *fetcher.Client, log *zap.Logger) *Repliers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repliers{
		creds:  creds,
		client: client,
		norm:   normalize.New(log),
		log:    log,
	}
}

func (r *Repliers) Name() string { return "repliers" }

func (r *Repliers) Configured() (bool, []string) {
	var missing []string
	if r.creds.APIKey == "" {
		missing = append(missing, "LEADGEN_REPLIERS_API_KEY")
	}
	if r.creds.BaseURL == "" {
		missing = append(missing, "LEADGEN_REPLIERS_BASE_URL")
	}
	return len(missing) == 0, missing
}

func (r *Repliers) FetchLeads(ctx context.Context, zipcode string, limit int, filters *model.FilterSpec) ([]model.ProviderLead, error) {
	if ok, missing := r.Configured(); !ok {
		r.log.Warn("repliers: not configured, skipping", zap.Strings("missing", missing))
		return nil, nil
	}

	params := translateFilters(zipcode, limit, filters)
	reqURL := strings.TrimRight(r.creds.BaseURL, "/") + "/listings"
	headers := map[string]string{
		"Authorization": "Bearer " + r.creds.APIKey,
	}

	payload, err := r.client.GetJSON(ctx, reqURL, params, headers)
	if err != nil {
		r.log.Warn("repliers: fetch failed", zap.Error(err))
		return nil, nil
	}

	leads := r.norm.MapItems(r.Name(), payload)
	r.log.Info("repliers: fetched leads",
		zap.String("zip", params.Get("zip")),
		zap.Int("count", len(leads)),
	)
	return leads, nil
}
