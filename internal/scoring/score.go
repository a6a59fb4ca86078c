package scoring

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/config"
	"github.com/passivepilot/leadgen-cli/internal/model"
)

// Engine scores property deals. It is purely functional over its inputs and
// safe to invoke in parallel across any number of properties.
type Engine struct {
	cfg config.ScoringConfig
	log *zap.Logger
}

// NewEngine creates an Engine with the given tunables. A nil logger falls
// back to a no-op logger.
func NewEngine(cfg config.ScoringConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log}
}

// CalculateDealScore computes the 0-100 composite score from three weighted
// components (spread, property value, and equity position) plus a flat
// bonus for absentee owners as a motivated-seller proxy. Unknown inputs score
// neutrally, never as zero. Returns the score, the named sub-scores, and an
// ordered explanation list.
func (e *Engine) CalculateDealScore(lead *model.ProviderLead, arv, mao, repairEstimate float64, askingPrice *float64) (float64, map[string]float64, []string) {
	breakdown := make(map[string]float64)
	var notes []string

	// Component 1: spread between MAO and asking price.
	var spreadScore float64
	if askingPrice != nil && *askingPrice > 0 {
		spread := mao - *askingPrice
		spreadPercent := 0.0
		if arv > 0 {
			spreadPercent = spread / arv * 100
		}
		switch {
		case spreadPercent >= 20:
			spreadScore = 100
			notes = append(notes, fmt.Sprintf("Excellent spread: %.1f%% ($%.0f)", spreadPercent, spread))
		case spreadPercent >= 15:
			spreadScore = 85
			notes = append(notes, fmt.Sprintf("Strong spread: %.1f%%", spreadPercent))
		case spreadPercent >= 10:
			spreadScore = 70
			notes = append(notes, fmt.Sprintf("Good spread: %.1f%%", spreadPercent))
		case spreadPercent >= 5:
			spreadScore = 50
			notes = append(notes, fmt.Sprintf("Fair spread: %.1f%%", spreadPercent))
		case spreadPercent >= 0:
			spreadScore = 25
			notes = append(notes, fmt.Sprintf("Tight spread: %.1f%%", spreadPercent))
		default:
			spreadScore = 0
			notes = append(notes, fmt.Sprintf("Negative spread: %.1f%% - overpriced", spreadPercent))
		}
	} else {
		spreadScore = 50
		notes = append(notes, "No asking price available for comparison")
	}
	breakdown["spread"] = spreadScore

	// Component 2: property value via price per sqft of ARV.
	var arvScore float64
	if lead.Sqft != nil && *lead.Sqft > 0 {
		pricePerSqft := arv / float64(*lead.Sqft)
		switch {
		case pricePerSqft >= 200:
			arvScore = 100
			notes = append(notes, fmt.Sprintf("Premium property: $%.0f/sqft", pricePerSqft))
		case pricePerSqft >= 150:
			arvScore = 85
			notes = append(notes, fmt.Sprintf("Above average value: $%.0f/sqft", pricePerSqft))
		case pricePerSqft >= 100:
			arvScore = 70
			notes = append(notes, fmt.Sprintf("Good value: $%.0f/sqft", pricePerSqft))
		case pricePerSqft >= 75:
			arvScore = 55
			notes = append(notes, fmt.Sprintf("Average value: $%.0f/sqft", pricePerSqft))
		default:
			arvScore = 40
			notes = append(notes, fmt.Sprintf("Lower value: $%.0f/sqft", pricePerSqft))
		}
	} else {
		arvScore = 60
		notes = append(notes, "No sqft data for value analysis")
	}
	breakdown["arv"] = arvScore

	// Component 3: existing equity position.
	var equityScore float64
	if lead.EquityPercent != nil {
		switch {
		case *lead.EquityPercent >= 50:
			equityScore = 100
			notes = append(notes, fmt.Sprintf("High equity: %.0f%%", *lead.EquityPercent))
		case *lead.EquityPercent >= 30:
			equityScore = 75
			notes = append(notes, fmt.Sprintf("Good equity: %.0f%%", *lead.EquityPercent))
		case *lead.EquityPercent >= 20:
			equityScore = 50
			notes = append(notes, fmt.Sprintf("Moderate equity: %.0f%%", *lead.EquityPercent))
		default:
			equityScore = 25
			notes = append(notes, fmt.Sprintf("Low equity: %.0f%%", *lead.EquityPercent))
		}
	} else {
		equityScore = 50
		notes = append(notes, "No equity data available")
	}
	breakdown["equity"] = equityScore

	total := spreadScore*e.cfg.SpreadWeight +
		arvScore*e.cfg.ARVWeight +
		equityScore*e.cfg.EquityWeight

	if lead.AbsenteeOwner != nil && *lead.AbsenteeOwner {
		total += e.cfg.AbsenteeBonus
		notes = append(notes, "Bonus: Absentee owner")
	}

	// The bonus must never push the score above the cap.
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	e.log.Debug("scoring: deal score",
		zap.Stringp("address", lead.Address),
		zap.Float64("score", total),
	)

	return total, breakdown, notes
}

// Recommendation maps a final deal score onto an ordinal label.
func Recommendation(score float64) string {
	switch {
	case score >= 80:
		return "Strong Deal"
	case score >= 65:
		return "Good Deal"
	case score >= 50:
		return "Fair Deal"
	case score >= 35:
		return "Marginal Deal"
	default:
		return "Poor Deal"
	}
}
