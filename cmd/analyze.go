package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/scoring"
)

var (
	analyzeAsking    float64
	analyzeCondition string
	analyzeTunables  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <property.json>",
	Short: "Score a property from a JSON payload file",
	Long:  "Reads a normalized property record from a JSON file and prints the full deal analysis: ARV, repair estimate, MAO, composite score, and recommendation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}
		var lead model.ProviderLead
		if err := json.Unmarshal(data, &lead); err != nil {
			return eris.Wrapf(err, "parse %s", args[0])
		}

		scoringCfg := cfg.Scoring
		if analyzeTunables != "" {
			scoringCfg, err = scoring.LoadTunables(analyzeTunables)
			if err != nil {
				return err
			}
		}
		if err := scoring.ValidateConfig(scoringCfg); err != nil {
			return err
		}

		engine := scoring.NewEngine(scoringCfg, zap.L())

		opts := scoring.AnalyzeOptions{ConditionOverride: analyzeCondition}
		if analyzeAsking > 0 {
			asking := analyzeAsking
			opts.AskingPrice = &asking
		}

		analysis, err := engine.Analyze(&lead, opts)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal analysis")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeAsking, "asking", 0, "asking price (omit if unknown)")
	analyzeCmd.Flags().StringVar(&analyzeCondition, "condition", "", "condition override (excellent|good|average|fair|poor)")
	analyzeCmd.Flags().StringVar(&analyzeTunables, "tunables", "", "path to a scoring tunables YAML file")
	rootCmd.AddCommand(analyzeCmd)
}
