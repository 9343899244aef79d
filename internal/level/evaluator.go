package level

// Rule is one promotion threshold. Score semantics depend on the caller:
// viewer points or streamer hours, both compared as float64.
type Rule struct {
	Level     int
	Threshold float64
	Active    bool
}

// Result of one evaluation.
type Result struct {
	NewLevel  int
	LeveledUp bool
}

// Evaluate picks the highest level among active rules whose threshold is
// already reached and whose level is above the current one, so a single
// score change can jump several levels at once. With no qualifying rule the
// current level is returned unchanged. The level never decreases.
func Evaluate(score float64, currentLevel int, rules []Rule) Result {
	best := currentLevel
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if r.Threshold <= score && r.Level > best {
			best = r.Level
		}
	}
	return Result{NewLevel: best, LeveledUp: best > currentLevel}
}
