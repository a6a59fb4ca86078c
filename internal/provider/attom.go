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

// Attom pulls property records from the ATTOM Data API.
type Attom struct {
	creds  config.ProviderCreds
	client *fetcher.Client
	norm   *normalize.Normalizer
	log    *zap.Logger
}

// NewAttom creates the ATTOM provider. A nil logger falls back to a no-op
// logger.
func NewAttom(creds config.ProviderCreds, client *fetcher.Client, log *zap.Logger) *Attom {
	if log == nil {
		log = zap.NewNop()
	}
	return &Attom{
		creds:  creds,
		client: client,
		norm:   normalize.New(log),
		log:    log,
	}
}

func (a *Attom) Name() string { return "attom" }

func (a *Attom) Configured() (bool, []string) {
	var missing []string
	if a.creds.APIKey == "" {
		missing = append(missing, "LEADGEN_ATTOM_API_KEY")
	}
	if a.creds.BaseURL == "" {
		missing = append(missing, "LEADGEN_ATTOM_BASE_URL")
	}
	return len(missing) == 0, missing
}

// FetchLeads queries the ATTOM property search endpoint. Any upstream failure
// degrades to an empty slice so a multi-provider pull keeps going.
func (a *Attom) FetchLeads(ctx context.Context, zipcode string, limit int, filters *model.FilterSpec) ([]model.ProviderLead, error) {
	if ok, missing := a.Configured(); !ok {
		a.log.Warn("attom: not configured, skipping", zap.Strings("missing", missing))
		return nil, nil
	}

	params := translateFilters(zipcode, limit, filters)
	reqURL := strings.TrimRight(a.creds.BaseURL, "/") + "/property/search"
	headers := map[string]string{
		"apikey": a.creds.APIKey,
	}

	payload, err := a.client.GetJSON(ctx, reqURL, params, headers)
	if err != nil {
		a.log.Warn("attom: fetch failed", zap.Error(err))
		return nil, nil
	}

	leads := a.norm.MapItems(a.Name(), payload)
	a.log.Info("attom: fetched leads",
		zap.String("zip", params.Get("zip")),
		zap.Int("count", len(leads)),
	)
	return leads, nil
}
