package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/briefbot/pkg/retry"
)

const (
	redditBaseURL  = "https://www.reddit.com"
	redditMaxLimit = 100
)

// Reddit searches public posts through the unauthenticated search.json endpoint.
type Reddit struct {
	baseURL string
	http    *getter
	now     func() time.Time
}

func NewReddit(timeout time.Duration, retryCfg *retry.Config) *Reddit {
	return &Reddit{
		baseURL: redditBaseURL,
		http:    newGetter(timeout, retryCfg),
		now:     time.Now,
	}
}

func (r *Reddit) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
}

func (r *Reddit) Fetch(ctx context.Context, query string, limit int) ([]Signal, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(clamp(limit, 1, redditMaxLimit)))
	params.Set("sort", "new")

	body, err := r.http.get(ctx, r.baseURL+"/search.json?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	out := make([]Signal, 0, len(listing.Data.Children))
	for _, ch := range listing.Data.Children {
		p := ch.Data
		link := p.URL
		if p.Permalink != "" {
			link = redditBaseURL + p.Permalink
		}
		created := r.now().UTC()
		if p.CreatedUTC > 0 {
			created = time.Unix(int64(p.CreatedUTC), 0).UTC()
		}
		out = append(out, Signal{
			Source:    "reddit",
			Platform:  "reddit",
			CreatedAt: created,
			URL:       link,
			Title:     p.Title,
			Text:      truncate(p.Selftext, textMaxRunes),
			Metrics: map[string]any{
				"score":     p.Score,
				"comments":  p.NumComments,
				"subreddit": p.Subreddit,
			},
		})
	}
	return out, nil
}
