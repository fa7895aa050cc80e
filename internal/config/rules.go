package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/worklab/newsdigest/internal/news"
)

// Feed is one search feed to poll.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Rules is the YAML feeds file: the ordered feed list and the keyword
// tables. Order in both lists is significant.
//
//	feeds:
//	  - name: ...
//	    url: https://...
//	entity: {id: ..., label: ..., weight: ..., keywords: [...]}
//	groups:
//	  - {id: ..., label: ..., weight: ..., keywords: [...]}
type Rules struct {
	Feeds  []Feed         `yaml:"feeds"`
	Entity news.TagRule   `yaml:"entity"`
	Groups []news.TagRule `yaml:"groups"`
}

// LoadRules reads and validates the feeds file.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds config: %w", err)
	}
	defer f.Close()

	var rules Rules
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("parse feeds config %s: %w", path, err)
	}
	for i := range rules.Feeds {
		if rules.Feeds[i].Name == "" {
			rules.Feeds[i].Name = rules.Feeds[i].URL
		}
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("feeds config %s: %w", path, err)
	}
	return &rules, nil
}

func (r *Rules) Validate() error {
	if len(r.Feeds) == 0 {
		return fmt.Errorf("no feeds configured")
	}
	for i, f := range r.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("feed %d has no url", i)
		}
	}

	seen := map[string]bool{}
	for _, rule := range r.TagRules() {
		if rule.ID == "" {
			return fmt.Errorf("tag rule without id")
		}
		if seen[rule.ID] {
			return fmt.Errorf("duplicate tag id %q", rule.ID)
		}
		seen[rule.ID] = true
		if rule.Weight < 0 {
			return fmt.Errorf("tag %q has negative weight", rule.ID)
		}
		if !hasKeyword(rule.Keywords) {
			return fmt.Errorf("tag %q has no keywords", rule.ID)
		}
	}
	return nil
}

// TagRules returns the entity rule followed by the groups.
func (r *Rules) TagRules() []news.TagRule {
	return append([]news.TagRule{r.Entity}, r.Groups...)
}

// EntityDominates reports whether the entity weight exceeds the sum of all
// group weights, i.e. an entity article outranks every article without it.
func (r *Rules) EntityDominates() bool {
	sum := 0
	for _, g := range r.Groups {
		sum += g.Weight
	}
	return r.Entity.Weight > sum
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}
