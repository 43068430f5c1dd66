package importer

// ResolveScore returns the score contribution of an answer option.
//
// Precedence, stopping at the first match:
//  1. the option's own explicit override,
//  2. the option key looked up in the scoring config's option_scores map,
//  3. zero.
//
// The chain is total: scoring configuration is author-optional, so every
// option resolves to exactly one score and resolution never fails.
func ResolveScore(opt BundleOption, cfg *ScoringConfig) int {
	if opt.Score != nil {
		return *opt.Score
	}
	if cfg != nil {
		if v, ok := cfg.OptionScores[opt.Key]; ok {
			return v
		}
	}
	return 0
}
