package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	s := referenceScorer()

	cases := []struct {
		name string
		tags []string
		want int
	}{
		{"none", nil, 0},
		{"entity and funding", []string{"competitor", "funding"}, 130},
		{"trend only", []string{"clinical", "insurance", "video"}, 53},
		{"duplicates count once", []string{"funding", "funding"}, 30},
		{"unknown tag", []string{"weather"}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tags := make([]Tag, 0, len(c.tags))
			for _, id := range c.tags {
				tags = append(tags, Tag{ID: id})
			}
			assert.Equal(t, c.want, s.Score(tags))
		})
	}
}

func TestScoreEntityAddsFullWeight(t *testing.T) {
	s := referenceScorer()
	entity := referenceEntity.Tag()

	for _, g := range referenceGroups {
		assert.Less(t, s.Weight(g.ID), s.Weight(entity.ID), g.ID)
	}

	// Every subset of trend tags, with and without the entity tag.
	for mask := 0; mask < 1<<len(referenceGroups); mask++ {
		var trend []Tag
		for i, g := range referenceGroups {
			if mask&(1<<i) != 0 {
				trend = append(trend, g.Tag())
			}
		}
		without := s.Score(trend)
		with := s.Score(append([]Tag{entity}, trend...))
		assert.Equal(t, 100+without, with)
		assert.Greater(t, with, without)
	}
}

func TestScoreIsPure(t *testing.T) {
	s := referenceScorer()
	tags := []Tag{{ID: "posture"}, {ID: "competitor"}}
	first := s.Score(tags)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(tags))
	}
	assert.Equal(t, first, s.Score([]Tag{{ID: "competitor"}, {ID: "posture"}}))
}
