package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/provider"
)

var (
	populateProvider string
	populateZip      string
	populateLimit    int
	populateFilters  string
)

var populateCmd = &cobra.Command{
	Use:   "populate <campaign-id>",
	Short: "Pull leads from a provider into a campaign",
	Long:  "Fetches property leads matching a zip code and saved filters, normalizes them, and ingests new rows into the campaign. Use --provider all to fan out across every configured provider.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var campaignID int64
		if _, err := fmt.Sscanf(args[0], "%d", &campaignID); err != nil {
			return eris.Wrapf(err, "invalid campaign id %q", args[0])
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		limit := populateLimit
		if limit == 0 {
			limit = cfg.Populate.DefaultLimit
		}

		created, err := runPopulate(ctx, env, campaignID, populateProvider, populateZip, limit, populateFilters)
		if err != nil {
			return err
		}

		summary, err := env.Analyzer.CampaignSummary(ctx, campaignID)
		if err != nil {
			return err
		}

		fmt.Printf("created %d leads (campaign %d: %d total, %d with phone, %d zips)\n",
			created, campaignID, summary.TotalLeads, summary.LeadsWithPhone, summary.DistinctZipCodes)
		return nil
	},
}

// runPopulate executes one populate pull: resolve providers, fetch, ingest.
// The stored filter spec is merged with the ad-hoc zip before translation,
// so the zip participates in dedup ordering like any saved filter zip.
func runPopulate(ctx context.Context, env *pipelineEnv, campaignID int64, providerName, zipcode string, limit int, filtersJSON string) (int, error) {
	filters := model.ParseFilterSpec(filtersJSON).MergeZip(zipcode)
	pullID := uuid.NewString()

	var providers []provider.LeadProvider
	if providerName == "all" {
		for _, p := range env.Registry.All() {
			if ok, _ := p.Configured(); ok {
				providers = append(providers, p)
			}
		}
		if len(providers) == 0 {
			return 0, eris.New("populate: no providers configured")
		}
	} else {
		p := env.Registry.Get(providerName)
		if p == nil {
			return 0, eris.Errorf("populate: unknown provider %q", providerName)
		}
		providers = append(providers, p)
	}

	var created atomic.Int64
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Populate.MaxConcurrency)
	for _, p := range providers {
		eg.Go(func() error {
			leads, err := p.FetchLeads(gctx, zipcode, limit, filters)
			if err != nil {
				return eris.Wrapf(err, "populate: fetch from %s", p.Name())
			}
			n, err := env.Ingest.Ingest(gctx, campaignID, leads)
			if err != nil {
				return eris.Wrapf(err, "populate: ingest from %s", p.Name())
			}
			zap.L().Info("populate: provider pull done",
				zap.String("pull_id", pullID),
				zap.String("provider", p.Name()),
				zap.Int64("campaign_id", campaignID),
				zap.Int("fetched", len(leads)),
				zap.Int("created", n),
			)
			created.Add(int64(n))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return int(created.Load()), err
	}
	return int(created.Load()), nil
}

func init() {
	populateCmd.Flags().StringVar(&populateProvider, "provider", "attom", "provider name, or 'all' for every configured provider")
	populateCmd.Flags().StringVar(&populateZip, "zip", "", "ad-hoc zip code merged into the filter spec")
	populateCmd.Flags().IntVar(&populateLimit, "limit", 0, "max leads per provider (default from config, clamped to 500)")
	populateCmd.Flags().StringVar(&populateFilters, "filters", "", "saved filter spec as JSON")
	rootCmd.AddCommand(populateCmd)
}
