package news

import "strings"

// TagRule binds a tag to the keywords that trigger it and to its score
// weight. Rules are evaluated in slice order.
type TagRule struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// Tag returns the tag this rule emits.
func (r TagRule) Tag() Tag {
	return Tag{ID: r.ID, Label: r.Label}
}

type matcher struct {
	tag      Tag
	keywords []string
}

func newMatcher(rule TagRule) matcher {
	m := matcher{tag: rule.Tag()}
	for _, k := range rule.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		m.keywords = append(m.keywords, k)
	}
	return m
}

// matches reports whether any keyword is a substring of text. text must
// already be lower-cased.
func (m matcher) matches(text string) bool {
	for _, k := range m.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Classifier assigns tags by case-insensitive substring matching.
type Classifier struct {
	entity matcher
	groups []matcher
}

// NewClassifier builds a classifier from the entity rule and the ordered
// tag groups. Blank keywords are ignored.
func NewClassifier(entity TagRule, groups []TagRule) *Classifier {
	c := &Classifier{entity: newMatcher(entity)}
	for _, g := range groups {
		c.groups = append(c.groups, newMatcher(g))
	}
	return c
}

// EntityTag is the id of the tag marking competitor/subject articles.
func (c *Classifier) EntityTag() string {
	return c.entity.tag.ID
}

// Classify returns the entity tag (if any keyword hits) followed by one tag
// per matching group, in group declaration order.
func (c *Classifier) Classify(title, summary string) []Tag {
	text := strings.ToLower(title + " " + summary)

	var tags []Tag
	if c.entity.matches(text) {
		tags = append(tags, c.entity.tag)
	}
	for _, g := range c.groups {
		if g.matches(text) {
			tags = append(tags, g.tag)
		}
	}
	return tags
}
