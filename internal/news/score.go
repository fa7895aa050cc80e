package news

// Scorer turns a tag set into a priority by summing per-tag weights.
type Scorer struct {
	weights map[string]int
}

// NewScorer takes its weight table from the rules. A later rule with the
// same id overrides an earlier one.
func NewScorer(rules ...TagRule) *Scorer {
	s := &Scorer{weights: make(map[string]int, len(rules))}
	for _, r := range rules {
		s.weights[r.ID] = r.Weight
	}
	return s
}

// Weight returns the weight of a single tag id; unknown ids weigh nothing.
func (s *Scorer) Weight(id string) int {
	return s.weights[id]
}

// Score sums the weights of the distinct tags.
func (s *Scorer) Score(tags []Tag) int {
	seen := make(map[string]struct{}, len(tags))
	score := 0
	for _, t := range tags {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		score += s.weights[t.ID]
	}
	return score
}
