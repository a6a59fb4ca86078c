package scoring

// MAOOptions overrides the configured assignment fee and closing costs for a
// single calculation. Nil fields keep the configured defaults.
type MAOOptions struct {
	AssignmentFee *float64
	ClosingCosts  *float64
}

// CalculateMAO computes the maximum allowable offer:
//
//	mao = arv * multiplier - repairs - assignmentFee - closingCosts
//
// clamped at zero. A zero MAO signals "no viable offer"; a negative number is
// never reported.
func (e *Engine) CalculateMAO(arv, repairEstimate float64, opts MAOOptions) float64 {
	fee := e.cfg.DefaultAssignmentFee
	if opts.AssignmentFee != nil {
		fee = *opts.AssignmentFee
	}
	closing := e.cfg.DefaultClosingCosts
	if opts.ClosingCosts != nil {
		closing = *opts.ClosingCosts
	}

	mao := arv*e.cfg.MAOMultiplier - repairEstimate - fee - closing
	if mao < 0 {
		mao = 0
	}
	return mao
}
