package scoring

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/passivepilot/leadgen-cli/internal/config"
)

// DefaultConfig returns a config.ScoringConfig with the standard wholesaling
// assumptions: the 70% rule for MAO and score weights summing to 1.0.
func DefaultConfig() config.ScoringConfig {
	return config.ScoringConfig{
		MAOMultiplier:        0.70,
		DefaultAssignmentFee: 5000,
		DefaultClosingCosts:  3000,

		RepairCostExcellent: 0,
		RepairCostGood:      10,
		RepairCostAverage:   25,
		RepairCostFair:      40,
		RepairCostPoor:      60,
		RepairCostDefault:   30,
		RepairFloor:         5000,
		RepairNoSqftDefault: 15000,

		AssessedValueMultiplier: 1.15,
		AnnualAppreciation:      0.03,
		YearsSinceSale:          5,

		SpreadWeight: 0.5,
		ARVWeight:    0.3,
		EquityWeight: 0.2,

		AbsenteeBonus: 5,
		ReferenceYear: 2024,
	}
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	weights := map[string]float64{
		"spread_weight": c.SpreadWeight,
		"arv_weight":    c.ARVWeight,
		"equity_weight": c.EquityWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := c.SpreadWeight + c.ARVWeight + c.EquityWeight
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	if math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.2f", sum))
	}

	if c.MAOMultiplier <= 0 || c.MAOMultiplier > 1 {
		errs = append(errs, fmt.Sprintf("mao_multiplier must be in (0, 1], got %.2f", c.MAOMultiplier))
	}
	if c.RepairFloor < 0 {
		errs = append(errs, "repair_floor must be >= 0")
	}
	if c.YearsSinceSale <= 0 {
		errs = append(errs, "years_since_sale must be > 0")
	}
	if c.ReferenceYear <= 0 {
		errs = append(errs, "reference_year must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadTunables reads a standalone scoring tunables YAML file. The file has a
// top-level "scoring" key mirroring the config section, so the same document
// can be dropped into config.yaml unchanged.
func LoadTunables(path string) (config.ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ScoringConfig{}, eris.Wrapf(err, "scoring: read tunables %s", path)
	}

	wrapper := struct {
		Scoring config.ScoringConfig `yaml:"scoring"`
	}{Scoring: DefaultConfig()}

	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return config.ScoringConfig{}, eris.Wrap(err, "scoring: parse tunables")
	}

	if err := ValidateConfig(wrapper.Scoring); err != nil {
		return config.ScoringConfig{}, err
	}
	return wrapper.Scoring, nil
}
