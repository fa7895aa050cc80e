package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklab/newsdigest/internal/news"
)

var testFormatter = Formatter{Title: "Daily <Brief>", Window: 48 * time.Hour, MaxArticles: 10}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "📡 오늘 신규 기사 없음 (최근 48시간 기준)", testFormatter.Render(news.Digest{}))
}

func TestRenderSectionsAndEscaping(t *testing.T) {
	d := news.Digest{
		Competitors: []news.Article{{
			Title: "Acme & Co <raise> \"B\"",
			Link:  `https://example.com/a?x=1&y="2"`,
			Tags:  []news.Tag{{ID: "competitor", Label: "🏢경쟁사"}, {ID: "funding", Label: "💰투자"}},
		}},
		Trends: []news.Article{
			{Title: "Gait study", Link: "https://example.org/g"},
			{Title: "Fall risk", Link: "https://example.org/f", Tags: []news.Tag{{ID: "clinical", Label: "🏥임상"}}},
		},
	}

	got := testFormatter.Render(d)
	lines := strings.Split(got, "\n")

	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "📡 <b>Daily &lt;Brief&gt;</b>", lines[0])
	assert.Equal(t, "(최근 48시간 / 상위 10건)", lines[1])

	assert.Contains(t, got, competitorHeading+"\n\n1. 🏢경쟁사 💰투자\n"+
		`<a href="https://example.com/a?x=1&amp;y=&quot;2&quot;">Acme &amp; Co &lt;raise&gt; "B"</a>`)
	assert.Contains(t, got, trendHeading+"\n\n2.\n"+`<a href="https://example.org/g">Gait study</a>`)
	assert.Contains(t, got, "3. 🏥임상\n"+`<a href="https://example.org/f">Fall risk</a>`)
	assert.False(t, strings.HasSuffix(got, "\n"))
	assert.Less(t, strings.Index(got, competitorHeading), strings.Index(got, trendHeading))
}

func TestRenderOmitsEmptySection(t *testing.T) {
	d := news.Digest{Trends: []news.Article{{Title: "Only trend", Link: "https://example.org/t"}}}
	got := testFormatter.Render(d)
	assert.NotContains(t, got, competitorHeading)
	assert.Contains(t, got, "1.\n")
}

func TestDeliveredRecordsOrder(t *testing.T) {
	sentAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := news.Digest{
		Competitors: []news.Article{{Link: "https://c", TitleKey: "c"}},
		Trends:      []news.Article{{Link: "https://t1", TitleKey: "t1"}, {Link: "https://t2", TitleKey: "t2"}},
	}

	records := DeliveredRecords(d, sentAt)
	require.Len(t, records, 3)
	assert.Equal(t, "https://c", records[0].URL)
	assert.Equal(t, "t2", records[2].TitleNorm)
	assert.Equal(t, "2025-06-01T12:00:00Z", records[0].SentAt)
}
