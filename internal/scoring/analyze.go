package scoring

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// AnalyzeOptions carries the per-call inputs for a full analysis.
type AnalyzeOptions struct {
	AskingPrice       *float64
	ConditionOverride string
	MAO               MAOOptions
}

// Analyze runs the complete scoring pipeline on a property: ARV, repair
// estimate, MAO, composite score, and recommendation. It fails fast when no
// ARV anchor exists (ErrInsufficientData); every later step is total over its
// nullable inputs. The result is computed fresh on every call and never
// persisted here.
func (e *Engine) Analyze(lead *model.ProviderLead, opts AnalyzeOptions) (*model.DealAnalysis, error) {
	arv, arvMethod, err := e.CalculateARV(lead)
	if err != nil {
		return nil, err
	}

	repairEstimate, condition := e.CalculateRepairEstimate(lead, opts.ConditionOverride)
	mao := e.CalculateMAO(arv, repairEstimate, opts.MAO)
	score, breakdown, notes := e.CalculateDealScore(lead, arv, mao, repairEstimate, opts.AskingPrice)

	spread := 0.0
	if opts.AskingPrice != nil && *opts.AskingPrice > 0 {
		spread = mao - *opts.AskingPrice
	}
	spreadPercent := 0.0
	if arv > 0 {
		spreadPercent = spread / arv * 100
	}

	// The first two notes are reserved for the ARV method and the condition.
	notes = append([]string{
		fmt.Sprintf("ARV calculated using: %s", arvMethod),
		fmt.Sprintf("Property condition: %s", condition),
	}, notes...)

	estimatedValue := 0.0
	if lead.EstimatedValue != nil {
		estimatedValue = *lead.EstimatedValue
	}

	e.log.Info("scoring: analysis complete",
		zap.Stringp("address", lead.Address),
		zap.String("arv_method", arvMethod),
		zap.Float64("arv", arv),
		zap.Float64("mao", mao),
		zap.Float64("deal_score", score),
	)

	return &model.DealAnalysis{
		ARV:            arv,
		RepairEstimate: repairEstimate,
		MAO:            mao,
		DealScore:      score,
		EstimatedValue: estimatedValue,
		Spread:         spread,
		SpreadPercent:  spreadPercent,
		ScoreBreakdown: breakdown,
		Recommendation: Recommendation(score),
		Notes:          notes,
	}, nil
}
