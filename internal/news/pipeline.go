package news

import (
	"strings"
	"time"

	"github.com/worklab/newsdigest/internal/dates"
)

// Reason is the outcome of running one entry through the pipeline.
type Reason string

const (
	Admitted               Reason = "admitted"
	RejectNoDate           Reason = "no_date"
	RejectStale            Reason = "stale"
	RejectMissingField     Reason = "missing_field"
	RejectEmptyTitleKey    Reason = "empty_title_key"
	RejectDuplicateInRun   Reason = "duplicate_in_run"
	RejectDuplicateHistory Reason = "duplicate_history"
)

// Seen answers whether an article identity was delivered before.
type Seen interface {
	ContainsLink(link string) bool
	ContainsTitleKey(key string) bool
}

type noHistory struct{}

func (noHistory) ContainsLink(string) bool     { return false }
func (noHistory) ContainsTitleKey(string) bool { return false }

// Options configures a Pipeline.
type Options struct {
	RecencyWindow time.Duration
	Location      *time.Location // reference zone for Published; UTC if nil
}

// Pipeline validates, deduplicates, classifies and scores feed entries.
type Pipeline struct {
	classifier *Classifier
	scorer     *Scorer
	recency    time.Duration
	loc        *time.Location
}

func NewPipeline(classifier *Classifier, scorer *Scorer, opts Options) *Pipeline {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		classifier: classifier,
		scorer:     scorer,
		recency:    opts.RecencyWindow,
		loc:        loc,
	}
}

// Result holds the admitted articles in admission order and a count of
// every decision taken.
type Result struct {
	Articles []Article
	Counts   map[Reason]int
}

// Rejected returns the number of entries dropped for reason.
func (r Result) Rejected(reason Reason) int {
	return r.Counts[reason]
}

// RunState carries the identities seen so far in one run and the recency
// cutoff. A fresh RunState must be used for every run.
type RunState struct {
	Cutoff    time.Time
	links     map[string]struct{}
	titleKeys map[string]struct{}
}

func NewRunState(cutoff time.Time) *RunState {
	return &RunState{
		Cutoff:    cutoff,
		links:     make(map[string]struct{}),
		titleKeys: make(map[string]struct{}),
	}
}

// Collect runs every entry through Admit in order. Order matters: for
// duplicates within the run the first entry wins.
func (p *Pipeline) Collect(entries []RawEntry, history Seen, now time.Time) Result {
	state := NewRunState(now.Add(-p.recency))
	res := Result{Counts: make(map[Reason]int)}

	for _, e := range entries {
		a, reason := p.Admit(e, state, history)
		res.Counts[reason]++
		if reason == Admitted {
			res.Articles = append(res.Articles, a)
		}
	}
	return res
}

// Admit decides a single entry. Both keys of an entry are recorded in state
// as soon as it survives canonicalization, even if history then rejects it.
func (p *Pipeline) Admit(e RawEntry, state *RunState, history Seen) (Article, Reason) {
	if history == nil {
		history = noHistory{}
	}

	published, err := dates.Parse(e.Published)
	if err != nil {
		return Article{}, RejectNoDate
	}
	published = published.In(p.loc)
	if published.Before(state.Cutoff) {
		return Article{}, RejectStale
	}

	rawLink := strings.TrimSpace(e.Link)
	title := strings.TrimSpace(e.Title)
	if rawLink == "" || title == "" {
		return Article{}, RejectMissingField
	}

	link := CanonicalLink(rawLink)
	key := TitleKey(title)
	if key == "" {
		return Article{}, RejectEmptyTitleKey
	}

	_, linkSeen := state.links[link]
	_, keySeen := state.titleKeys[key]
	if linkSeen || keySeen {
		return Article{}, RejectDuplicateInRun
	}
	state.links[link] = struct{}{}
	state.titleKeys[key] = struct{}{}

	if history.ContainsLink(link) || history.ContainsTitleKey(key) {
		return Article{}, RejectDuplicateHistory
	}

	tags := p.classifier.Classify(title, e.Summary)
	return Article{
		Title:     title,
		RawLink:   rawLink,
		Link:      link,
		TitleKey:  key,
		Summary:   e.Summary,
		Source:    e.Source,
		Published: published,
		Tags:      tags,
		Priority:  p.scorer.Score(tags),
	}, Admitted
}
