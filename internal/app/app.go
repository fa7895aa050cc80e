package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/worklab/newsdigest/internal/config"
	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/metrics"
	"github.com/worklab/newsdigest/internal/news"
	"github.com/worklab/newsdigest/internal/storage"
)

// Source returns the raw entries of all feeds in feed order.
type Source interface {
	FetchAll(ctx context.Context, feeds []config.Feed) []news.RawEntry
}

// Sink delivers one formatted message.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// App runs one digest cycle: load history, fetch, filter, rank, deliver,
// remember.
type App struct {
	Feeds       []config.Feed
	Pipeline    *news.Pipeline
	EntityTag   string
	MaxArticles int
	Formatter   Formatter

	Source    Source
	Sink      Sink
	Backend   storage.Backend
	Retention time.Duration
	Location  *time.Location

	// DryRun keeps the history untouched after delivery.
	DryRun bool

	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Report describes a finished run.
type Report struct {
	RunID     string
	Fetched   int
	Pruned    int
	Counts    map[news.Reason]int
	Digest    news.Digest
	Message   string
	Delivered bool
	Saved     bool
}

// New assembles an App from the loaded settings and rules.
func New(cfg *config.Config, rules *config.Rules, source Source, sink Sink, backend storage.Backend) *App {
	classifier := news.NewClassifier(rules.Entity, rules.Groups)
	scorer := news.NewScorer(rules.TagRules()...)
	pipeline := news.NewPipeline(classifier, scorer, news.Options{
		RecencyWindow: cfg.TimeWindow,
		Location:      cfg.Location,
	})

	if !rules.EntityDominates() {
		logger.Warn("Entity weight does not exceed the sum of group weights; heavily tagged trends can outrank competitor news",
			"entity_weight", rules.Entity.Weight)
	}

	return &App{
		Feeds:       rules.Feeds,
		Pipeline:    pipeline,
		EntityTag:   classifier.EntityTag(),
		MaxArticles: cfg.MaxArticles,
		Formatter: Formatter{
			Title:       cfg.DigestTitle,
			Window:      cfg.TimeWindow,
			MaxArticles: cfg.MaxArticles,
		},
		Source:    source,
		Sink:      sink,
		Backend:   backend,
		Retention: cfg.HistoryRetention,
		Location:  cfg.Location,
		Metrics:   metrics.Global,
	}
}

func (a *App) now() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Run executes one cycle. A delivery failure ends the run before history
// is touched; the error is returned with the partial report.
func (a *App) Run(ctx context.Context) (*Report, error) {
	m := a.Metrics
	if m == nil {
		m = metrics.Global
	}

	start := time.Now()
	rep := &Report{RunID: uuid.NewString()}
	log := logger.With("run_id", rep.RunID)
	m.IncrementRuns(rep.RunID)

	now := a.now()
	log.Info("Digest run started", "feeds", len(a.Feeds), "dry_run", a.DryRun)

	history := storage.NewHistory(a.Backend, a.Retention)
	history.Load(ctx)
	rep.Pruned = history.Prune(now)
	log.Info("History loaded", "retained", history.Len(), "pruned", rep.Pruned)

	entries := a.Source.FetchAll(ctx, a.Feeds)
	rep.Fetched = len(entries)

	res := a.Pipeline.Collect(entries, history, now)
	rep.Counts = res.Counts
	for reason, n := range res.Counts {
		if reason != news.Admitted {
			m.AddRejected(string(reason), n)
		}
	}
	log.Info("Entries filtered",
		"fetched", rep.Fetched,
		"admitted", len(res.Articles),
		"stale", res.Rejected(news.RejectStale),
		"no_date", res.Rejected(news.RejectNoDate),
		"duplicate_in_run", res.Rejected(news.RejectDuplicateInRun),
		"duplicate_history", res.Rejected(news.RejectDuplicateHistory),
	)

	rep.Digest = news.Select(res.Articles, a.MaxArticles, a.EntityTag)
	rep.Message = a.Formatter.Render(rep.Digest)

	if err := a.Sink.Send(ctx, rep.Message); err != nil {
		m.SetError(err.Error())
		log.Error("Digest delivery failed", "error", err)
		return rep, fmt.Errorf("deliver digest: %w", err)
	}
	rep.Delivered = true
	m.RecordDigest(rep.Digest.Len())
	log.Info("Digest delivered",
		"competitors", len(rep.Digest.Competitors),
		"trends", len(rep.Digest.Trends))

	if a.DryRun {
		log.Info("Dry run, history not saved")
	} else {
		history.Append(DeliveredRecords(rep.Digest, now)...)
		if err := history.Save(ctx); err != nil {
			m.SetError(err.Error())
			log.Error("History save failed", "error", err)
			return rep, err
		}
		rep.Saved = true
	}

	elapsed := time.Since(start)
	m.RecordProcessingTime(elapsed)
	m.SetLastRun()
	log.Info("Digest run finished", "duration", elapsed.String())
	return rep, nil
}
