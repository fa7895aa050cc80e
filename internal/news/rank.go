package news

import "sort"

// Rank returns a copy of articles ordered by priority, then by publication
// time, newest first. Exact ties keep their input order.
func Rank(articles []Article) []Article {
	ranked := make([]Article, len(articles))
	copy(ranked, articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].Published.After(ranked[j].Published)
	})
	return ranked
}

// Digest is the ranked, capped selection split into its two sections.
// Each section keeps the relative order of the ranked list.
type Digest struct {
	Competitors []Article
	Trends      []Article
}

func (d Digest) Len() int {
	return len(d.Competitors) + len(d.Trends)
}

// Empty reports the empty-result condition.
func (d Digest) Empty() bool {
	return d.Len() == 0
}

// Articles lists the digest in presentation order: competitors, then trends.
func (d Digest) Articles() []Article {
	out := make([]Article, 0, d.Len())
	out = append(out, d.Competitors...)
	return append(out, d.Trends...)
}

// Select ranks articles, keeps the top max (all when max <= 0) and
// partitions them on entityTag.
func Select(articles []Article, max int, entityTag string) Digest {
	ranked := Rank(articles)
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}

	var d Digest
	for _, a := range ranked {
		if a.HasTag(entityTag) {
			d.Competitors = append(d.Competitors, a)
		} else {
			d.Trends = append(d.Trends, a)
		}
	}
	return d
}
