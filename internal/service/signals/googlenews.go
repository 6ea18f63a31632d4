package signals

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/briefbot/pkg/retry"
)

const (
	googleNewsBaseURL  = "https://news.google.com"
	googleNewsMaxLimit = 50
)

// GoogleNews searches the public Google News RSS feed.
type GoogleNews struct {
	baseURL string
	http    *getter
	now     func() time.Time
}

func NewGoogleNews(timeout time.Duration, retryCfg *retry.Config) *GoogleNews {
	return &GoogleNews{
		baseURL: googleNewsBaseURL,
		http:    newGetter(timeout, retryCfg),
		now:     time.Now,
	}
}

func (g *GoogleNews) Name() string { return "google_news_rss" }

type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

func (g *GoogleNews) Fetch(ctx context.Context, query string, limit int) ([]Signal, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	body, err := g.http.get(ctx, g.baseURL+"/rss/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("google news search: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}

	items := feed.Items
	if n := clamp(limit, 1, googleNewsMaxLimit); len(items) > n {
		items = items[:n]
	}

	out := make([]Signal, 0, len(items))
	for _, it := range items {
		out = append(out, Signal{
			Source:    "google_news_rss",
			Platform:  "news",
			CreatedAt: g.parseDate(it.PubDate),
			URL:       strings.TrimSpace(it.Link),
			Title:     strings.TrimSpace(it.Title),
			Text:      truncate(plainText(it.Description), textMaxRunes),
		})
	}
	return out, nil
}

func (g *GoogleNews) parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return g.now().UTC()
}

// plainText strips the HTML that RSS descriptions carry. Unparseable input is returned as is.
func plainText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return s
	}
	return text
}
