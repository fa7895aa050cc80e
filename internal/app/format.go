package app

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/worklab/newsdigest/internal/news"
	"github.com/worklab/newsdigest/internal/storage"
)

const (
	competitorHeading = "🏢 <b>경쟁사 동향</b>"
	trendHeading      = "📈 <b>트렌드</b>"
)

// Formatter renders a digest as a Telegram HTML message.
type Formatter struct {
	Title       string
	Window      time.Duration
	MaxArticles int
}

func (f Formatter) windowHours() int {
	return int(f.Window / time.Hour)
}

// Render produces the message for d, or the empty notice when d is empty.
func (f Formatter) Render(d news.Digest) string {
	if d.Empty() {
		return f.EmptyNotice()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📡 <b>%s</b>\n", escape(f.Title))
	fmt.Fprintf(&b, "(최근 %d시간 / 상위 %d건)\n", f.windowHours(), f.MaxArticles)

	index := 1
	for _, section := range []struct {
		heading  string
		articles []news.Article
	}{
		{competitorHeading, d.Competitors},
		{trendHeading, d.Trends},
	} {
		if len(section.articles) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(section.heading)
		b.WriteString("\n\n")
		for _, a := range section.articles {
			b.WriteString(formatArticle(a, index))
			index++
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// EmptyNotice is sent when no article qualified.
func (f Formatter) EmptyNotice() string {
	return fmt.Sprintf("📡 오늘 신규 기사 없음 (최근 %d시간 기준)", f.windowHours())
}

func formatArticle(a news.Article, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.", index)
	if labels := a.TagLabels(); len(labels) > 0 {
		b.WriteString(" ")
		b.WriteString(escape(strings.Join(labels, " ")))
	}
	fmt.Fprintf(&b, "\n<a href=\"%s\">%s</a>\n\n", escapeAttr(a.Link), escape(a.Title))
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(escape(s), `"`, "&quot;")
}

// DeliveredRecords returns the history records for a delivered digest, in
// presentation order.
func DeliveredRecords(d news.Digest, sentAt time.Time) []storage.Record {
	articles := d.Articles()
	records := make([]storage.Record, 0, len(articles))
	for _, a := range articles {
		records = append(records, storage.NewRecord(a.Link, a.TitleKey, sentAt))
	}
	return records
}
