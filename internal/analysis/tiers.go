package analysis

// impactTier buckets a delta against the partition average into the
// four shared tiers. Format impact and profile effectiveness both rate
// through this single function so the cutoffs stay in one place.
func (a *Analyzer) impactTier(delta float64) ImpactRating {
	switch {
	case delta >= a.opts.HighImpactCutoff:
		return ImpactHigh
	case delta >= a.opts.MediumImpactCutoff:
		return ImpactMedium
	case delta >= a.opts.LowImpactCutoff:
		return ImpactLow
	default:
		return ImpactNegative
	}
}

// effectivenessFromImpact maps the shared tiers onto profile wording.
func effectivenessFromImpact(impact ImpactRating) EffectivenessRating {
	switch impact {
	case ImpactHigh:
		return RatingExcellent
	case ImpactMedium:
		return RatingGood
	case ImpactLow:
		return RatingFair
	default:
		return RatingPoor
	}
}
