package model

// Property condition classifications used by the repair estimator.
const (
	ConditionExcellent = "excellent" // move-in ready, no repairs
	ConditionGood      = "good"      // minor cosmetic updates
	ConditionAverage   = "average"   // moderate repairs needed
	ConditionFair      = "fair"      // significant repairs needed
	ConditionPoor      = "poor"      // major renovation required
	ConditionUnknown   = "unknown"   // no data to classify
)

// ARV estimation methods, in strict priority order.
const (
	ARVMethodAVM              = "avm"
	ARVMethodAssessedValue    = "assessed_value"
	ARVMethodLastSale         = "last_sale"
	ARVMethodInsufficientData = "insufficient_data"
)

// DealAnalysis is the full result of scoring one property. It is computed
// fresh on every call and carries no identity; persistence of analyses is a
// collaborator concern.
type DealAnalysis struct {
	ARV            float64 `json:"arv"`
	RepairEstimate float64 `json:"repair_estimate"`
	MAO            float64 `json:"mao"`
	DealScore      float64 `json:"deal_score"`

	EstimatedValue float64 `json:"estimated_value"`
	Spread         float64 `json:"spread"`
	SpreadPercent  float64 `json:"spread_percent"`

	// Named sub-scores that produced DealScore.
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`

	Recommendation string `json:"recommendation"`

	// Ordered rationale. The first two entries are always the ARV method
	// and the condition used.
	Notes []string `json:"notes"`
}
