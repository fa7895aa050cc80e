package news

import "time"

// RawEntry is one feed item exactly as the feed delivered it. Any field may
// be empty.
type RawEntry struct {
	Source    string
	Title     string
	Link      string
	Summary   string
	Published string
}

// Tag is a classification attached to an article. ID is the stable
// identifier used for scoring and sectioning; Label is what readers see.
type Tag struct {
	ID    string
	Label string
}

// Article is a feed entry that passed every pipeline stage.
type Article struct {
	Title     string
	RawLink   string
	Link      string // canonical link, primary dedup key
	TitleKey  string // normalized title, secondary dedup key
	Summary   string
	Source    string
	Published time.Time
	Tags      []Tag
	Priority  int
}

// HasTag reports whether the article carries the tag with the given id.
func (a Article) HasTag(id string) bool {
	for _, t := range a.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// TagLabels returns the display labels in tag order.
func (a Article) TagLabels() []string {
	labels := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		labels = append(labels, t.Label)
	}
	return labels
}
