package scoring

import (
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// EstimateCondition derives a property condition from its age. Missing
// year-built data is treated pessimistically (age 50, poor) except when
// the record carries neither a build year nor a sale history, in which case
// there is nothing to band on and the estimate stays neutral.
func (e *Engine) EstimateCondition(lead *model.ProviderLead) string {
	if lead.YearBuilt == nil && lead.LastSalePrice == nil {
		return model.ConditionAverage
	}

	age := 50
	if lead.YearBuilt != nil {
		age = e.cfg.ReferenceYear - *lead.YearBuilt
	}

	switch {
	case age < 10:
		return model.ConditionGood
	case age < 30:
		return model.ConditionAverage
	case age < 50:
		return model.ConditionFair
	default:
		return model.ConditionPoor
	}
}

// CalculateRepairEstimate computes repair costs as sqft times a per-sqft rate
// banded by condition, floored at a minimum (even trivial repairs carry
// holding and transaction costs). A caller-supplied condition overrides the
// age heuristic. Without sqft the per-sqft model cannot scale, so a flat
// default applies with condition "unknown".
func (e *Engine) CalculateRepairEstimate(lead *model.ProviderLead, conditionOverride string) (float64, string) {
	if lead.Sqft == nil || *lead.Sqft <= 0 {
		e.log.Debug("scoring: no sqft data, using default repair estimate",
			zap.Stringp("address", lead.Address),
		)
		return e.cfg.RepairNoSqftDefault, model.ConditionUnknown
	}

	condition := conditionOverride
	if condition == "" {
		condition = e.EstimateCondition(lead)
	}

	costPerSqft := e.cfg.RepairCostDefault
	switch condition {
	case model.ConditionExcellent:
		costPerSqft = e.cfg.RepairCostExcellent
	case model.ConditionGood:
		costPerSqft = e.cfg.RepairCostGood
	case model.ConditionAverage:
		costPerSqft = e.cfg.RepairCostAverage
	case model.ConditionFair:
		costPerSqft = e.cfg.RepairCostFair
	case model.ConditionPoor:
		costPerSqft = e.cfg.RepairCostPoor
	}

	estimate := float64(*lead.Sqft) * costPerSqft
	if estimate < e.cfg.RepairFloor {
		estimate = e.cfg.RepairFloor
	}

	e.log.Debug("scoring: repair estimate",
		zap.Stringp("address", lead.Address),
		zap.Int("sqft", *lead.Sqft),
		zap.Float64("cost_per_sqft", costPerSqft),
		zap.String("condition", condition),
		zap.Float64("estimate", estimate),
	)

	return estimate, condition
}
