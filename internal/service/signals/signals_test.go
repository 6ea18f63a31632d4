package signals

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *retry.Config {
	return &retry.Config{MaxRetries: 1, BackoffFactor: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestReddit_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "korean sunscreen", r.URL.Query().Get("q"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "new", r.URL.Query().Get("sort"))
		assert.Equal(t, core.BriefUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"children":[
			{"data":{"permalink":"/r/AsianBeauty/x","title":"Best sunscreen","selftext":"no white cast\nat all","score":12,"num_comments":3,"subreddit":"AsianBeauty","created_utc":1767225600}},
			{"data":{"url":"https://example.com/p","title":"second"}}
		]}}`)
	}))
	defer srv.Close()

	r := NewReddit(time.Second, fastRetry())
	r.baseURL = srv.URL
	r.now = func() time.Time { return fixedNow }

	got, err := r.Fetch(context.Background(), "  korean sunscreen ", 500)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "https://www.reddit.com/r/AsianBeauty/x", got[0].URL)
	assert.Equal(t, "no white cast at all", got[0].Text)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), got[0].CreatedAt)
	assert.Equal(t, 12, got[0].Metrics["score"])
	assert.Equal(t, "reddit", got[0].Source)

	assert.Equal(t, "https://example.com/p", got[1].URL)
	assert.Equal(t, fixedNow, got[1].CreatedAt)
}

func TestReddit_EmptyQuery(t *testing.T) {
	r := NewReddit(time.Second, fastRetry())
	r.baseURL = "http://127.0.0.1:0"
	got, err := r.Fetch(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReddit_ClientErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewReddit(time.Second, fastRetry())
	r.baseURL = srv.URL

	_, err := r.Fetch(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), hits.Load())
}

func TestReddit_ServerErrorIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data":{"children":[]}}`)
	}))
	defer srv.Close()

	r := NewReddit(time.Second, fastRetry())
	r.baseURL = srv.URL

	got, err := r.Fetch(context.Background(), "q", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), hits.Load())
}

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item><title>K-beauty sunscreen sales soar</title><link>https://news.example/1</link>
<pubDate>Mon, 05 Jan 2026 10:00:00 GMT</pubDate>
<description>&lt;a href="https://news.example/1"&gt;Lightweight formulas&lt;/a&gt; lead</description></item>
<item><title>Second</title><link>https://news.example/2</link><pubDate>not a date</pubDate><description>plain</description></item>
<item><title>Third</title><link>https://news.example/3</link></item>
</channel></rss>`

func TestGoogleNews_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rss/search", r.URL.Path)
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		assert.Equal(t, "en-US", r.URL.Query().Get("hl"))
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture)
	}))
	defer srv.Close()

	g := NewGoogleNews(time.Second, fastRetry())
	g.baseURL = srv.URL
	g.now = func() time.Time { return fixedNow }

	got, err := g.Fetch(context.Background(), "sunscreen", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "K-beauty sunscreen sales soar", got[0].Title)
	assert.Equal(t, "news", got[0].Platform)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), got[0].CreatedAt)
	assert.Contains(t, got[0].Text, "Lightweight formulas")
	assert.NotContains(t, got[0].Text, "<a")
	assert.Equal(t, fixedNow, got[1].CreatedAt)
}

func TestGoogleNews_BadXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<rss><channel><item>")
	}))
	defer srv.Close()

	g := NewGoogleNews(time.Second, fastRetry())
	g.baseURL = srv.URL
	_, err := g.Fetch(context.Background(), "q", 5)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate("  a\nb  ", 10))
	assert.Equal(t, "가나", truncate("가나다라", 2))
}

type stubSource struct {
	name string
	sigs []Signal
	err  error
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) Fetch(context.Context, string, int) ([]Signal, error) {
	return s.sigs, s.err
}

func TestCollector_SkipsFailingSources(t *testing.T) {
	c := NewCollector(
		stubSource{name: "a", sigs: []Signal{{Title: "1"}}},
		stubSource{name: "broken", err: errors.New("boom")},
		stubSource{name: "b", sigs: []Signal{{Title: "2"}, {Title: "3"}}},
	)

	got := c.Collect(context.Background(), "q", 0)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[2].Title)
	assert.Equal(t, []string{"a", "broken", "b"}, c.Sources())
}

func sig(text string) Signal { return Signal{Source: "test", Title: "t", Text: text} }

func TestCountLexicon(t *testing.T) {
	signals := []Signal{
		sig("So greasy and sticky"),
		sig("it broke me out, greasy"),
		sig("no white cast, lightweight"),
		sig("Soothing and calm"),
		sig("nothing here"),
	}

	risks := CountLexicon(signals, RiskLexicon)
	assert.Equal(t, []LexiconCount{{"greasy/sticky", 2}, {"white-cast", 1}, {"irritation", 1}}, risks)

	needs := CountLexicon(signals, NeedLexicon)
	assert.Equal(t, []LexiconCount{{"sensitive/soothing", 1}, {"no-white-cast", 1}, {"lightweight", 1}}, needs)
}

func TestBuildPulse(t *testing.T) {
	var signals []Signal
	for i := 0; i < 10; i++ {
		signals = append(signals, sig(strings.Repeat("x", 300)+" hydrating"))
	}

	p := BuildPulse(signals)
	assert.Equal(t, 10, p.SignalsCount)
	assert.Len(t, p.Evidence, 8)
	assert.Len(t, []rune(p.Evidence[0].Snippet), 180)
	require.Len(t, p.Insights, 1)
	assert.Len(t, p.Insights[0].Evidence, 4)
}

func TestBuildPulse_NoSignals(t *testing.T) {
	p := BuildPulse(nil)
	require.Len(t, p.Insights, 1)
	assert.Empty(t, p.Insights[0].Top)
	assert.Empty(t, p.Evidence)
}

func TestBuildAlerts(t *testing.T) {
	var signals []Signal
	for i := 0; i < 4; i++ {
		signals = append(signals, sig("terrible white cast"))
	}
	signals = append(signals, sig("a bit sticky"))

	r := BuildAlerts(signals, 0)
	assert.Equal(t, 5, r.SignalsCount)
	require.Len(t, r.Alerts, 1)
	assert.Equal(t, "white-cast", r.Alerts[0].Risk)
	assert.Equal(t, 4, r.Alerts[0].Count)

	r = BuildAlerts(signals, 1)
	assert.Len(t, r.Alerts, 2)
}
