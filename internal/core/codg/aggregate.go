package codg

import "sort"

// Aggregate groups records by level and counts Left and Right judgements
// A non empty stimulus keeps only records shown with that stimulus identity
// Output is sorted ascending by level so input order never matters
func Aggregate(records []TrialRecord, stimulus string) []Level {
	byLevel := make(map[float64]*Level)
	for _, rec := range records {
		if stimulus != "" && rec.Stimulus != stimulus {
			continue
		}
		lv, ok := byLevel[rec.Level]
		if !ok {
			lv = &Level{Level: rec.Level}
			byLevel[rec.Level] = lv
		}
		lv.N++
		switch rec.Response {
		case Left:
			lv.Left++
		case Right:
			lv.Right++
		}
	}

	out := make([]Level, 0, len(byLevel))
	for _, lv := range byLevel {
		out = append(out, *lv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

// Stimuli lists the distinct stimulus identities in first seen order
func Stimuli(records []TrialRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		if _, ok := seen[rec.Stimulus]; ok || rec.Stimulus == "" {
			continue
		}
		seen[rec.Stimulus] = struct{}{}
		out = append(out, rec.Stimulus)
	}
	return out
}

// totalTrials sums N across levels
func totalTrials(levels []Level) int {
	n := 0
	for _, l := range levels {
		n += l.N
	}
	return n
}

// columns splits levels into the parallel vectors the fitter consumes
func columns(levels []Level) (xs, ns, lefts, rights []float64) {
	xs = make([]float64, len(levels))
	ns = make([]float64, len(levels))
	lefts = make([]float64, len(levels))
	rights = make([]float64, len(levels))
	for i, l := range levels {
		xs[i] = l.Level
		ns[i] = float64(l.N)
		lefts[i] = float64(l.Left)
		rights[i] = float64(l.Right)
	}
	return xs, ns, lefts, rights
}
