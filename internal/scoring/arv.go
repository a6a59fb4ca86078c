package scoring

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// ErrInsufficientData is returned when a property carries no value anchor at
// all: no AVM estimate, no assessed value, no last sale price. Analysis
// cannot proceed without one; callers should surface this as bad input, not
// a system fault.
var ErrInsufficientData = eris.New("scoring: insufficient data to calculate ARV")

// CalculateARV estimates the after-repair value using a strict priority
// fallback, first applicable wins:
//
//  1. provider AVM estimate
//  2. assessed value with a market multiplier (assessed trends below market)
//  3. last sale price with an appreciation assumption
//
// Returns the ARV and the method used.
func (e *Engine) CalculateARV(lead *model.ProviderLead) (float64, string, error) {
	if lead.EstimatedValue != nil && *lead.EstimatedValue > 0 {
		return *lead.EstimatedValue, model.ARVMethodAVM, nil
	}

	if lead.AssessedValue != nil && *lead.AssessedValue > 0 {
		arv := *lead.AssessedValue * e.cfg.AssessedValueMultiplier
		e.log.Debug("scoring: ARV from assessed value",
			zap.Float64("assessed", *lead.AssessedValue),
			zap.Float64("arv", arv),
		)
		return arv, model.ARVMethodAssessedValue, nil
	}

	if lead.LastSalePrice != nil && *lead.LastSalePrice > 0 {
		// The holding period is a fixed configured assumption rather than
		// elapsed time from LastSaleDate; see DESIGN.md.
		appreciation := math.Pow(1+e.cfg.AnnualAppreciation, float64(e.cfg.YearsSinceSale))
		arv := *lead.LastSalePrice * appreciation
		e.log.Debug("scoring: ARV from last sale",
			zap.Float64("last_sale", *lead.LastSalePrice),
			zap.Float64("arv", arv),
		)
		return arv, model.ARVMethodLastSale, nil
	}

	e.log.Warn("scoring: cannot calculate ARV",
		zap.Stringp("address", lead.Address),
	)
	return 0, model.ARVMethodInsufficientData, ErrInsufficientData
}
