package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/config"
	"github.com/passivepilot/leadgen-cli/internal/model"
)

// DealMachine is a credential stub: it registers and reports its configuration
// status, but lead fetching is not wired up yet.
// TODO: wire FetchLeads once a DealMachine export endpoint is provisioned.
type DealMachine struct {
	creds config.ProviderCreds
	log   *zap.Logger
}

// NewDealMachine creates the DealMachine provider stub.
func NewDealMachine(creds config.ProviderCreds, log *zap.Logger) *DealMachine {
	if log == nil {
		log = zap.NewNop()
	}
	return &DealMachine{creds: creds, log: log}
}

func (d *DealMachine) Name() string { return "dealmachine" }

func (d *DealMachine) Configured() (bool, []string) {
	var missing []string
	if d.creds.APIKey == "" {
		missing = append(missing, "LEADGEN_DEALMACHINE_API_KEY")
	}
	if d.creds.BaseURL == "" {
		missing = append(missing, "LEADGEN_DEALMACHINE_BASE_URL")
	}
	return len(missing) == 0, missing
}

func (d *DealMachine) FetchLeads(ctx context.Context, zipcode string, limit int, filters *model.FilterSpec) ([]model.ProviderLead, error) {
	d.log.Debug("dealmachine: fetch not implemented, returning empty")
	return nil, nil
}
